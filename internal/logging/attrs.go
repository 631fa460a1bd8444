package logging

import "log/slog"

func ProcessID(id string) slog.Attr {
	return slog.String("process_id", id)
}

func ProcessKey(key string) slog.Attr {
	return slog.String("process_key", key)
}

func ExecutionID(id string) slog.Attr {
	return slog.String("execution_id", id)
}

func ActivityID(id string) slog.Attr {
	return slog.String("activity_id", id)
}

func TaskID(id string) slog.Attr {
	return slog.String("task_id", id)
}

func ExchangeID(id string) slog.Attr {
	return slog.String("exchange_id", id)
}

func Endpoint(uri string) slog.Attr {
	return slog.String("endpoint", uri)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

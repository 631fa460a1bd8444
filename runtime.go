package flowbridge

import (
	"context"
	"fmt"
	"path"

	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/runtime/execution"
	"github.com/viant/flowbridge/service/dao"
	"github.com/viant/flowbridge/service/processor"
	"github.com/viant/flowbridge/service/repository"
)

// Runtime represents the process engine runtime
type Runtime struct {
	service *Service
}

// Deploy registers a process as the next version of its key
func (r *Runtime) Deploy(process *bpmn.Process) (*repository.Definition, error) {
	return r.service.repository.Deploy(process)
}

// DeployYAML decodes and deploys a YAML definition
func (r *Runtime) DeployYAML(data []byte) (*repository.Definition, error) {
	process, err := r.service.definitions.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return r.Deploy(process)
}

// DeployJSON converts an editor document and deploys its main process
func (r *Runtime) DeployJSON(data []byte) (*repository.Definition, error) {
	model, err := r.service.converter.ToModel(data)
	if err != nil {
		return nil, err
	}
	process := model.MainProcess()
	if process == nil {
		return nil, fmt.Errorf("editor document has no process")
	}
	return r.Deploy(process)
}

// LoadDefinition loads and deploys a definition; editor documents are
// recognised by the .json extension
func (r *Runtime) LoadDefinition(ctx context.Context, URL string) (*repository.Definition, error) {
	if path.Ext(URL) == ".json" {
		data, err := r.service.fs.DownloadWithURL(ctx, URL, r.service.fsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load definition from %s: %w", URL, err)
		}
		return r.DeployJSON(data)
	}
	process, err := r.service.definitions.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	return r.Deploy(process)
}

// LoadDefinitions deploys every YAML definition under baseURL
func (r *Runtime) LoadDefinitions(ctx context.Context, baseURL string) ([]*repository.Definition, error) {
	processes, err := r.service.definitions.LoadAll(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	var result []*repository.Definition
	for _, process := range processes {
		deployed, err := r.Deploy(process)
		if err != nil {
			return nil, err
		}
		r.service.logger.Info("definition deployed", "key", deployed.Key, "version", deployed.Version)
		result = append(result, deployed)
	}
	return result, nil
}

// StartProcessByKey starts the latest version of key and runs it until
// the first wait state
func (r *Runtime) StartProcessByKey(ctx context.Context, key, businessKey string, variables map[string]interface{}) (*execution.ProcessInstance, error) {
	definition, err := r.service.repository.Latest(key)
	if err != nil {
		return nil, err
	}
	return r.service.processor.StartProcess(ctx, &processor.StartRequest{
		Definition:  definition,
		BusinessKey: businessKey,
		Variables:   variables,
	})
}

// Trigger signals a waiting execution
func (r *Runtime) Trigger(ctx context.Context, executionID string, variables map[string]interface{}) error {
	return r.service.processor.Trigger(ctx, executionID, variables)
}

// Variables returns the process variables visible to an execution
func (r *Runtime) Variables(ctx context.Context, executionID string) (execution.Variables, error) {
	return r.service.processor.Variables(ctx, executionID)
}

func (r *Runtime) SetVariables(ctx context.Context, executionID string, variables map[string]interface{}) error {
	return r.service.processor.SetVariables(ctx, executionID, variables)
}

// Execution returns an execution
func (r *Runtime) Execution(ctx context.Context, id string) (*execution.Execution, error) {
	return r.service.processor.Execution(ctx, id)
}

// Executions returns executions matching parameters
func (r *Runtime) Executions(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Execution, error) {
	return r.service.processor.Executions(ctx, parameters...)
}

// WaitingExecution returns the single execution of instance waiting in activityID
func (r *Runtime) WaitingExecution(ctx context.Context, instanceID, activityID string) (*execution.Execution, error) {
	executions, err := r.Executions(ctx,
		dao.NewParameter(dao.ParamProcessInstanceID, instanceID),
		dao.NewParameter(dao.ParamActivityID, activityID),
		dao.NewParameter(dao.ParamState, string(execution.StateWaiting)))
	if err != nil {
		return nil, err
	}
	switch len(executions) {
	case 0:
		return nil, fmt.Errorf("execution of %s waiting in %s: %w", instanceID, activityID, dao.ErrNotFound)
	case 1:
		return executions[0], nil
	}
	return nil, fmt.Errorf("%d executions of %s are waiting in %s", len(executions), instanceID, activityID)
}

// ProcessInstance returns a process instance
func (r *Runtime) ProcessInstance(ctx context.Context, id string) (*execution.ProcessInstance, error) {
	return r.service.processor.ProcessInstance(ctx, id)
}

// ProcessInstances returns process instances matching parameters
func (r *Runtime) ProcessInstances(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.ProcessInstance, error) {
	return r.service.processor.ProcessInstances(ctx, parameters...)
}

// Start starts the async job workers
func (r *Runtime) Start(ctx context.Context) error {
	return r.service.processor.Start(ctx)
}

// Shutdown stops routes, workers and owned event listeners
func (r *Runtime) Shutdown(ctx context.Context) error {
	err := r.service.routes.Shutdown()
	r.service.processor.Shutdown()
	if r.service.ownEvents && r.service.events != nil {
		r.service.events.Shutdown()
	}
	return err
}

package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	api "github.com/mohitkumar/flowmvc/api/v1"
	"github.com/mohitkumar/flowmvc/executor"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/metadata"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	"go.uber.org/zap"
)

var _ executor.FlowDefinitionLocator = new(Registry)

// Registry locates flows registered in code first, then the scripted flows in
// metadata storage. Compiled programs are kept until their script changes.
type Registry struct {
	service  metadata.MetadataService
	mu       sync.RWMutex
	flows    map[string]executor.FlowDefinition
	compiled map[string]*ScriptFlow
}

func NewRegistry(service metadata.MetadataService) *Registry {
	return &Registry{
		service:  service,
		flows:    make(map[string]executor.FlowDefinition),
		compiled: make(map[string]*ScriptFlow),
	}
}

func (r *Registry) Register(def executor.FlowDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[def.Id()] = def
}

func (r *Registry) GetFlowDefinition(flowId string) (executor.FlowDefinition, error) {
	r.mu.RLock()
	def, ok := r.flows[flowId]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}
	if r.service == nil {
		return nil, &api.NoSuchFlowDefinitionError{FlowId: flowId}
	}
	doc, err := r.service.GetMetadataStorage().GetFlowDefinition(flowId)
	if err != nil {
		var notFound persistence.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &api.NoSuchFlowDefinitionError{FlowId: flowId}
		}
		return nil, api.NewFlowError("could not load flow definition "+flowId, err)
	}
	return r.compile(*doc)
}

// GetScriptDefinition returns the stored definition behind a scripted flow.
func (r *Registry) GetScriptDefinition(flowId string) (*model.FlowDefinition, bool) {
	def, err := r.GetFlowDefinition(flowId)
	if err != nil {
		return nil, false
	}
	sf, ok := def.(*ScriptFlow)
	if !ok {
		return nil, false
	}
	doc := sf.Definition()
	return &doc, true
}

func (r *Registry) compile(doc model.FlowDefinition) (*ScriptFlow, error) {
	r.mu.RLock()
	sf, ok := r.compiled[doc.Name]
	r.mu.RUnlock()
	if ok && sf.def.Script == doc.Script {
		return &ScriptFlow{def: doc, program: sf.program}, nil
	}
	sf, err := Compile(doc)
	if err != nil {
		return nil, &api.FlowExecutionError{FlowId: doc.Name, Cause: err}
	}
	r.mu.Lock()
	r.compiled[doc.Name] = sf
	r.mu.Unlock()
	return sf, nil
}

// LoadDirectory validates and stores every *.json flow definition in dir.
func (r *Registry) LoadDirectory(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		var def model.FlowDefinition
		if err := json.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("invalid flow definition %s %w", file, err)
		}
		if len(def.Name) == 0 {
			def.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		}
		if err := r.service.ValidateFlow(def); err != nil {
			return fmt.Errorf("invalid flow definition %s %w", file, err)
		}
		if err := r.service.GetMetadataStorage().SaveFlowDefinition(def); err != nil {
			return err
		}
		logger.Info("flow definition loaded", zap.String("name", def.Name), zap.String("file", file))
	}
	return nil
}

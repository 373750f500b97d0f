package flow

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/mohitkumar/flowmvc/executor"
	"github.com/mohitkumar/flowmvc/model"
)

const DEFAULT_OUTCOME = "end"

var _ executor.FlowDefinition = new(ScriptFlow)

// ScriptFlow runs a flow written in javascript. The script defines
// start(input, scope, params) and optionally resume(scope, params). Returning
// nothing pauses the flow, returning a string or {outcome, output} ends it.
type ScriptFlow struct {
	def     model.FlowDefinition
	program *goja.Program
}

func Compile(def model.FlowDefinition) (*ScriptFlow, error) {
	if len(def.Name) == 0 {
		return nil, fmt.Errorf("flow name can not be empty")
	}
	if len(def.Script) == 0 {
		return nil, fmt.Errorf("flow %s, script can not be empty", def.Name)
	}
	program, err := goja.Compile(def.Name, def.Script, true)
	if err != nil {
		return nil, fmt.Errorf("error compiling flow %s %w", def.Name, err)
	}
	return &ScriptFlow{def: def, program: program}, nil
}

// Validate compiles the flow and checks that it defines a start function.
func Validate(def model.FlowDefinition) error {
	sf, err := Compile(def)
	if err != nil {
		return err
	}
	vm := goja.New()
	if _, err := vm.RunProgram(sf.program); err != nil {
		return fmt.Errorf("error executing javascript %w", err)
	}
	if _, ok := goja.AssertFunction(vm.Get("start")); !ok {
		return fmt.Errorf("flow %s does not define function start", def.Name)
	}
	return nil
}

func (s *ScriptFlow) Id() string {
	return s.def.Name
}

func (s *ScriptFlow) Definition() model.FlowDefinition {
	return s.def
}

func (s *ScriptFlow) Start(ec model.ExternalContext, input *model.AttributeMap, scope map[string]any) (*model.FlowExecutionOutcome, error) {
	return s.run(ec, "start", func(vm *goja.Runtime) []goja.Value {
		return []goja.Value{vm.ToValue(input.AsMap()), vm.ToValue(scope), vm.ToValue(ec.RequestParameters())}
	})
}

func (s *ScriptFlow) Resume(ec model.ExternalContext, scope map[string]any) (*model.FlowExecutionOutcome, error) {
	return s.run(ec, "resume", func(vm *goja.Runtime) []goja.Value {
		return []goja.Value{vm.ToValue(scope), vm.ToValue(ec.RequestParameters())}
	})
}

func (s *ScriptFlow) run(ec model.ExternalContext, function string, args func(vm *goja.Runtime) []goja.Value) (*model.FlowExecutionOutcome, error) {
	vm := goja.New()
	if err := vm.Set("external", externalBinding(ec)); err != nil {
		return nil, err
	}
	if _, err := vm.RunProgram(s.program); err != nil {
		return nil, fmt.Errorf("error executing javascript %w", err)
	}
	fn, ok := goja.AssertFunction(vm.Get(function))
	if !ok {
		return nil, fmt.Errorf("flow %s does not define function %s", s.def.Name, function)
	}
	res, err := fn(goja.Undefined(), args(vm)...)
	if err != nil {
		return nil, fmt.Errorf("error executing javascript %w", err)
	}
	return toOutcome(vm, res), nil
}

func toOutcome(vm *goja.Runtime, res goja.Value) *model.FlowExecutionOutcome {
	if isEmpty(res) {
		return nil
	}
	outcome := &model.FlowExecutionOutcome{Name: DEFAULT_OUTCOME, Output: model.NewAttributeMap()}
	if name, ok := res.Export().(string); ok {
		outcome.Name = name
		return outcome
	}
	obj := res.ToObject(vm)
	if name := obj.Get("outcome"); !isEmpty(name) {
		outcome.Name = name.String()
	}
	if output := obj.Get("output"); !isEmpty(output) {
		out := output.ToObject(vm)
		for _, k := range out.Keys() {
			outcome.Output.Put(k, out.Get(k).Export())
		}
	}
	return outcome
}

func isEmpty(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// externalBinding exposes the redirect requests of the external context to scripts.
// Failed requests are thrown as javascript errors.
func externalBinding(ec model.ExternalContext) map[string]any {
	return map[string]any{
		"ajax": ec.IsAjaxRequest(),
		"executionRedirect": func() error {
			return ec.RequestFlowExecutionRedirect()
		},
		"definitionRedirect": func(flowId string, input map[string]any) error {
			return ec.RequestFlowDefinitionRedirect(flowId, model.AttributeMapFromMap(input))
		},
		"externalRedirect": func(location string) error {
			return ec.RequestExternalRedirect(location)
		},
		"popup": func() {
			ec.RequestRedirectInPopup()
		},
		"responseComplete": func() {
			ec.RecordResponseComplete()
		},
	}
}

package metadata

import "github.com/mohitkumar/flowmvc/model"

type MetadataStorage interface {
	SaveFlowDefinition(def model.FlowDefinition) error
	DeleteFlowDefinition(name string) error
	GetFlowDefinition(name string) (*model.FlowDefinition, error)
	ListFlowDefinitions() ([]string, error)
}

package metadata

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/util"
)

type MetadataService interface {
	ValidateFlow(def model.FlowDefinition) error
	GetMetadataStorage() MetadataStorage
}

type MetadataServiceImpl struct {
	storage MetadataStorage
	compile func(def model.FlowDefinition) error
}

// NewMetadataService validates definitions with compile before they are stored.
func NewMetadataService(storage MetadataStorage, compile func(def model.FlowDefinition) error) MetadataService {
	return &MetadataServiceImpl{
		storage: storage,
		compile: compile,
	}
}

func (s *MetadataServiceImpl) ValidateFlow(def model.FlowDefinition) error {
	if len(def.Name) == 0 {
		return fmt.Errorf("flow name can not be empty")
	}
	if strings.HasPrefix(def.Name, "/") || strings.HasSuffix(def.Name, "/") || strings.ContainsAny(def.Name, "?#") {
		return fmt.Errorf("flow name %s is not a valid path", def.Name)
	}
	for outcome, location := range def.OutcomeRedirects {
		if len(location) == 0 {
			return fmt.Errorf("flow %s, redirect for outcome %s can not be empty", def.Name, outcome)
		}
		if _, err := url.Parse(location); err != nil {
			return fmt.Errorf("flow %s, redirect for outcome %s is invalid %w", def.Name, outcome, err)
		}
	}
	if len(def.ExceptionRedirect) > 0 {
		if _, err := url.Parse(def.ExceptionRedirect); err != nil {
			return fmt.Errorf("flow %s, exception redirect is invalid %w", def.Name, err)
		}
	}
	if err := util.ValidateInputParams(def.InputParams); err != nil {
		return fmt.Errorf("flow %s, %w", def.Name, err)
	}
	if s.compile != nil {
		return s.compile(def)
	}
	return nil
}

func (s *MetadataServiceImpl) GetMetadataStorage() MetadataStorage {
	return s.storage
}

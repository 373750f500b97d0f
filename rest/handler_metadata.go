package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
)

func (s *Server) HandleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var fl model.FlowDefinition
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&fl); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid flow definition")
		return
	}
	err := s.metadataService.ValidateFlow(fl)
	if err != nil {
		logger.Error("error validating flow", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.metadataService.GetMetadataStorage().SaveFlowDefinition(fl)
	if err != nil {
		logger.Error("error creating flow", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating flow")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

func (s *Server) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	flowName := mux.Vars(r)["name"]
	fl, err := s.metadataService.GetMetadataStorage().GetFlowDefinition(flowName)
	if err != nil {
		var notFound persistence.NotFoundError
		if errors.As(err, &notFound) {
			logger.Info("flow does not exist", zap.String("name", flowName))
			respondWithError(w, http.StatusNotFound, "flow does not exist")
			return
		}
		logger.Error("error reading flow", zap.String("name", flowName), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error reading flow")
		return
	}
	respondWithJSON(w, http.StatusOK, fl)
}

func (s *Server) HandleListFlows(w http.ResponseWriter, r *http.Request) {
	names, err := s.metadataService.GetMetadataStorage().ListFlowDefinitions()
	if err != nil {
		logger.Error("error listing flows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing flows")
		return
	}
	respondOK(w, map[string]any{"flows": names})
}

func (s *Server) HandleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	flowName := mux.Vars(r)["name"]
	if err := s.metadataService.GetMetadataStorage().DeleteFlowDefinition(flowName); err != nil {
		logger.Error("error deleting flow", zap.String("name", flowName), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting flow")
		return
	}
	respondOK(w, map[string]any{"deleted": true})
}

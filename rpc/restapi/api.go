// Package restapi provides the restful api of the swaps server.
package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/internal/swapapi"
	"github.com/gorilla/mux"
)

const defaultHistoryLimit = 20

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	// Note: must set header before write header
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err == nil {
		jsonData, _ := json.Marshal(resp)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(jsonData)
	} else {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintln(w, err.Error())
	}
}

// VersionInfoHandler handler
func VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, swapapi.GetVersionInfo(), nil)
}

// ServerInfoHandler handler
func ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	res, err := swapapi.GetServerInfo()
	writeResponse(w, res, err)
}

// StatsHandler handler
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := swapapi.GetStats()
	writeResponse(w, res, err)
}

// GetOperationHandler handler
func GetOperationHandler(w http.ResponseWriter, r *http.Request) {
	operationID, err := common.GetUint64FromStr(mux.Vars(r)["id"])
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := swapapi.GetOperation(operationID)
	writeResponse(w, res, err)
}

// GetOperationHistoryHandler handler
func GetOperationHistoryHandler(w http.ResponseWriter, r *http.Request) {
	operationID, err := common.GetUint64FromStr(mux.Vars(r)["id"])
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := swapapi.GetOperationHistory(operationID)
	writeResponse(w, res, err)
}

// GetRecoverableHandler handler
func GetRecoverableHandler(w http.ResponseWriter, r *http.Request) {
	res, err := swapapi.GetRecoverable(mux.Vars(r)["address"])
	writeResponse(w, res, err)
}

func getHistoryParams(r *http.Request) (address string, offset, limit int, err error) {
	vars := mux.Vars(r)
	vals := r.URL.Query()

	address = vars["address"]
	limit = defaultHistoryLimit

	if offsetStr, exist := vals["offset"]; exist {
		offset, err = strconv.Atoi(offsetStr[0])
		if err != nil || offset < 0 {
			return address, offset, limit, fmt.Errorf("wrong offset")
		}
	}

	if limitStr, exist := vals["limit"]; exist {
		limit, err = strconv.Atoi(limitStr[0])
		if err != nil {
			return address, offset, limit, fmt.Errorf("wrong limit")
		}
	}

	return address, offset, limit, nil
}

// SenderHistoryHandler handler
func SenderHistoryHandler(w http.ResponseWriter, r *http.Request) {
	address, offset, limit, err := getHistoryParams(r)
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := swapapi.GetSenderHistory(address, offset, limit)
	writeResponse(w, res, err)
}

// InflightHandler handler
func InflightHandler(w http.ResponseWriter, r *http.Request) {
	res, err := swapapi.ListInflight()
	writeResponse(w, res, err)
}

// OutboxHandler handler
func OutboxHandler(w http.ResponseWriter, r *http.Request) {
	failed := r.URL.Query().Get("failed") == "true"
	res, err := swapapi.ListOutbox(failed)
	writeResponse(w, res, err)
}

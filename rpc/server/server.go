// Package server provides the api server of the swaps server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/anyswap/CrossChain-Swaps/rpc/restapi"
	"github.com/anyswap/CrossChain-Swaps/rpc/rpcapi"
)

// StartAPIServer start api server, it is shut down when ctx is done
func StartAPIServer(ctx context.Context) {
	router := initRouter()

	apiPort := params.GetAPIPort()
	var allowedOrigins []string
	var maxRequestsLimit int
	if serverCfg := params.GetServerConfig(); serverCfg != nil && serverCfg.APIServer != nil {
		apiServer := serverCfg.APIServer
		allowedOrigins = apiServer.AllowedOrigins
		maxRequestsLimit = apiServer.MaxRequestsLimit
	}

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(allowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", rpcapi.RelayerKeyHeader}),
			handlers.AllowedOrigins(allowedOrigins),
		)
	}

	var handler http.Handler = router
	if maxRequestsLimit > 0 {
		lmt := tollbooth.NewLimiter(float64(maxRequestsLimit), nil)
		handler = tollbooth.LimitHandler(lmt, handler)
	}

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins, "maxRequestsLimit", maxRequestsLimit)
	svr := &http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      handlers.CORS(corsOptions...)(handler),
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svr.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown api server failed", "err", err)
		}
		log.Info("api server stopped")
	}()
}

func initRouter() *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	_ = rpcserver.RegisterService(new(rpcapi.RPCAPI), "swaps")

	r.Handle("/rpc", rpcserver)
	r.HandleFunc("/serverinfo", restapi.ServerInfoHandler).Methods("GET")
	r.HandleFunc("/versioninfo", restapi.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/stats", restapi.StatsHandler).Methods("GET")
	r.HandleFunc("/operation/{id}", restapi.GetOperationHandler).Methods("GET")
	r.HandleFunc("/operation/{id}/history", restapi.GetOperationHistoryHandler).Methods("GET")
	r.HandleFunc("/recoverable/{address}", restapi.GetRecoverableHandler).Methods("GET")
	r.HandleFunc("/history/{address}", restapi.SenderHistoryHandler).Methods("GET")
	r.HandleFunc("/inflight", restapi.InflightHandler).Methods("GET")
	r.HandleFunc("/outbox", restapi.OutboxHandler).Methods("GET")

	methodsExcluesGet := []string{"POST", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

	r.HandleFunc("/serverinfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/versioninfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/stats", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/operation/{id}", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/operation/{id}/history", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/recoverable/{address}", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/history/{address}", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/inflight", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/outbox", warnHandler).Methods(methodsExcluesGet...)

	return r
}

func warnHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Forbid '%v' on '%v'\n", r.Method, r.RequestURI)
}

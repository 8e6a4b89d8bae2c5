package openapi

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/grizzly"
	"github.com/autom8ter/grizzly/util"
	"github.com/deepmap/oapi-codegen/pkg/codegen"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed openapi.yaml.tmpl
var openapiTemplate string

// Config are custom params for generating an openapi specification
type Config struct {
	Title        string   `json:"title" yaml:"title" validate:"required"`
	Version      string   `json:"version" yaml:"version" validate:"required"`
	Description  string   `json:"description" yaml:"description" validate:"required"`
	Port         int      `json:"port" yaml:"port" validate:"required"`
	AllowOrigins []string `json:"allowOrigins"`
	LogLevel     string   `json:"logLevel"`
}

type OpenAPIServer struct {
	params        Config
	router        *mux.Router
	upgrader      websocket.Upgrader
	spec          []byte
	specMu        sync.RWMutex
	openapiRouter routers.Router
	logger        Logger
}

// New creates a new openapi server
func New(params Config, opts ...Opt) (*OpenAPIServer, error) {
	if err := util.ValidateStruct(&params); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	switch params.LogLevel {
	case "error", "ERROR":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case "warn", "WARN":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "info", "INFO":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build(
		zap.WithCaller(true),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return nil, err
	}
	o := &OpenAPIServer{
		params:   params,
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		logger:   zapLogger{logger: l},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func getSpec(ctx context.Context, config Config, db grizzly.Database) ([]byte, error) {
	t, err := template.New("").Funcs(sprig.FuncMap()).Parse(openapiTemplate)
	if err != nil {
		return nil, err
	}
	collections, err := db.Collections(ctx)
	if err != nil {
		return nil, err
	}
	var coll []map[string]interface{}
	for _, c := range collections {
		admin := db.Collection(c).Admin().Blocking()
		capped, err := admin.IsCapped(ctx)
		if err != nil {
			return nil, err
		}
		coll = append(coll, map[string]interface{}{
			"collection": c,
			"capped":     capped,
		})
	}
	buf := bytes.NewBuffer(nil)
	err = t.Execute(buf, map[string]any{
		"title":       config.Title,
		"description": config.Description,
		"version":     config.Version,
		"collections": coll,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *OpenAPIServer) RegisterRoutes(ctx context.Context, db grizzly.Database) error {
	if err := o.refreshSpec(ctx, db); err != nil {
		return err
	}
	mwares := []mux.MiddlewareFunc{
		handlers.CORS(
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			handlers.AllowedOrigins(o.params.AllowOrigins),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		),
		o.metadataWare(),
		o.openAPIValidator(),
		o.loggerWare(),
		handlers.RecoveryHandler(),
	}
	o.router.Use(mwares...)
	o.router.HandleFunc("/openapi.yaml", o.specHandler()).Methods(http.MethodGet)
	o.router.HandleFunc("/openapi.json", o.specHandler()).Methods(http.MethodGet)
	o.router.HandleFunc("/api/sdk", o.getSDKHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/ping", o.pingHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/command", o.commandHandler(db)).Methods(http.MethodPost)
	o.router.HandleFunc("/api/events", o.eventsHandler(db))
	o.router.HandleFunc("/api/collections", o.listCollectionsHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/collections", o.configureCollectionHandler(db)).Methods(http.MethodPut)
	o.router.HandleFunc("/api/collections/{collection}", o.dropCollectionHandler(db)).Methods(http.MethodDelete)
	o.router.HandleFunc("/api/collections/{collection}/stats", o.statsHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/collections/{collection}/capped", o.cappedHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/collections/{collection}/indexes", o.getIndexesHandler(db)).Methods(http.MethodGet)
	o.router.HandleFunc("/api/collections/{collection}/indexes", o.createIndexesHandler(db)).Methods(http.MethodPost)
	o.router.HandleFunc("/api/collections/{collection}/indexes/{index}", o.dropIndexHandler(db)).Methods(http.MethodDelete)
	o.router.HandleFunc("/api/collections/{collection}/seed", o.seedHandler(db)).Methods(http.MethodPost)
	return nil
}

func (o *OpenAPIServer) refreshSpec(ctx context.Context, db grizzly.Database) error {
	spec, err := getSpec(ctx, o.params, db)
	if err != nil {
		return err
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return err
	}
	if err := doc.Validate(loader.Context); err != nil {
		return err
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return err
	}
	o.specMu.Lock()
	o.spec = spec
	o.openapiRouter = router
	o.specMu.Unlock()
	return nil
}

// Spec returns the openapi specification
func (o *OpenAPIServer) Spec(ctx context.Context, db grizzly.Database) ([]byte, error) {
	o.specMu.RLock()
	defer o.specMu.RUnlock()
	if o.spec == nil {
		return getSpec(ctx, o.params, db)
	}
	return o.spec, nil
}

// GenerateSDK generates a go SDK based on the database API schema
func (o *OpenAPIServer) GenerateSDK(ctx context.Context, db grizzly.Database, packageName string, w io.Writer) error {
	spec, err := o.Spec(ctx, db)
	if err != nil {
		return err
	}
	loader := openapi3.NewLoader()
	swaggerSpec, err := loader.LoadFromData(spec)
	if err != nil {
		return err
	}
	code, err := codegen.Generate(swaggerSpec, codegen.Configuration{
		PackageName: packageName,
		Generate: codegen.GenerateOptions{
			Client:       true,
			Models:       true,
			EmbeddedSpec: true,
		},
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(code))
	return err
}

// Serve starts an openapi http server serving the database
func (o *OpenAPIServer) Serve(ctx context.Context, db grizzly.Database) error {
	defer o.logger.Sync(ctx)
	if err := o.RegisterRoutes(ctx, db); err != nil {
		return err
	}
	egp, ctx := errgroup.WithContext(ctx)
	egp.Go(func() error {
		return http.ListenAndServe(fmt.Sprintf(":%v", o.params.Port), o.router)
	})
	egp.Go(func() error {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := o.refreshSpec(ctx, db); err != nil {
					return err
				}
			}
		}
	})
	return egp.Wait()
}

// Logger returns the openapi logging instance
func (o *OpenAPIServer) Logger() Logger {
	return o.logger
}

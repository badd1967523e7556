package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/restab/restab/pkg/httputil"
	"github.com/restab/restab/pkg/metrics"
	"go.uber.org/zap"
)

// Querier is the subset of *pgxpool.Pool the server executes queries
// through.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QueryResult is the paginated response envelope. TotalCount is nil
// when the count query failed; a count failure never blocks returning
// data.
type QueryResult struct {
	Data       []map[string]any `json:"data"`
	Count      int              `json:"count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalCount *int64           `json:"total_count"`
}

// ServerOptions configures optional Server behavior. A nil options
// struct or zero field selects the default.
type ServerOptions struct {
	Logger *zap.Logger
	// QueryTimeout bounds each database round-trip, including waiting
	// for a pooled connection. Defaults to 30s.
	QueryTimeout time.Duration
}

// Server exposes tables of a single database through read-only REST
// endpoints. The connection pool is injected and shared across
// concurrent requests; the Server itself holds no mutable state.
type Server struct {
	pool         Querier
	router       *httputil.Router
	logger       *zap.Logger
	queryTimeout time.Duration
}

func NewServer(pool Querier, options *ServerOptions) *Server {
	if options == nil {
		options = &ServerOptions{}
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := options.QueryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &Server{
		pool:         pool,
		router:       httputil.NewRouter(),
		logger:       logger,
		queryTimeout: timeout,
	}
	s.registerHandlers()

	return s
}

func (s *Server) registerHandlers() {
	s.router.Handle("GET /{$}", http.HandlerFunc(s.handleRoot))
	s.router.Handle("GET /health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("GET /{table}", http.HandlerFunc(s.handleTable))
	s.router.Handle("GET /{table}/{filter}", http.HandlerFunc(s.handleTableFiltered))
}

// AddMiddleware registers middleware applied to every route.
func (s *Server) AddMiddleware(mw httputil.Middleware, additional ...httputil.Middleware) {
	s.router.Use(mw, additional...)
}

// Handler returns the server's routes with all registered middleware
// applied, for mounting in another mux or in tests.
func (s *Server) Handler() http.Handler {
	return s.router.Handler()
}

// Start serves HTTP on addr until the listener fails or Shutdown is
// called.
func (s *Server) Start(addr string) error {
	return s.router.ListenAndServe(addr)
}

// Shutdown gracefully stops the HTTP server. The caller owns the pool
// and closes it separately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "restab API server"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleTable serves unfiltered listings: GET /{table}
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, false)
}

// handleTableFiltered serves filtered listings: GET /{table}/{filter}
func (s *Server) handleTableFiltered(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, true)
}

// query runs the shared request sequence: sanitize identifiers, parse
// filters when present, build the COUNT and SELECT statements, execute
// both, decode rows, and write the result envelope.
func (s *Server) query(w http.ResponseWriter, r *http.Request, filtered bool) {
	tableName := r.PathValue("table")
	table, err := SanitizeIdentifier(tableName)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid table name")
		return
	}

	var conds []Condition
	if filtered {
		filters, err := ParseFilters(r.PathValue("filter"))
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid filter: "+err.Error())
			return
		}
		conds = make([]Condition, 0, len(filters))
		for _, f := range filters {
			col, err := SanitizeIdentifier(f.Column)
			if err != nil {
				httputil.Error(w, http.StatusBadRequest, "invalid column name")
				return
			}
			conds = append(conds, Condition{Column: col, Operator: f.Operator, Value: f.Value})
		}
	}

	params := parseQueryParams(r)

	order := "ASC"
	if params.Order != "" {
		if order, err = validateSortOrder(params.Order); err != nil {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	var sort *SortClause
	if params.Sort != "" {
		col, err := SanitizeIdentifier(params.Sort)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid sort column")
			return
		}
		sort = &SortClause{Column: col, Order: order}
	}

	selectSQL, args := buildSelect(table, conds, sort, params)
	countSQL, countArgs := buildCount(table, conds)

	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	s.logger.Debug("executing query",
		zap.String("sql", selectSQL),
		zap.Int("binds", len(args)))

	// The count is decoupled from the main query: a count failure is
	// logged and reported as a null total_count, never a request error.
	var totalCount *int64
	countStart := time.Now()
	var count int64
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
		s.logger.Error("count query failed",
			zap.String("table", tableName),
			zap.Error(err))
		metrics.CountFailures.WithLabelValues(tableName).Inc()
	} else {
		metrics.QueryDuration.WithLabelValues("count").Observe(time.Since(countStart).Seconds())
		totalCount = &count
	}

	selectStart := time.Now()
	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		s.logger.Error("select query failed",
			zap.String("table", tableName),
			zap.Error(err))
		httputil.Error(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	defer rows.Close()

	data, err := decodeRows(rows)
	if err != nil {
		s.logger.Error("row decoding failed",
			zap.String("table", tableName),
			zap.Error(err))
		httputil.Error(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	metrics.QueryDuration.WithLabelValues("select").Observe(time.Since(selectStart).Seconds())

	httputil.JSON(w, http.StatusOK, QueryResult{
		Data:       data,
		Count:      len(data),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
	})
}

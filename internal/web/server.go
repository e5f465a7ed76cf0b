package web

import (
	"encoding/json"
	"net/http"

	"binance-futures-bot-go/internal/bot"
	"binance-futures-bot-go/internal/models"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Server exposes the order pipeline over a small REST API plus a
// single-page console for manual testing.
type Server struct {
	bot    *bot.BasicBot
	router *mux.Router
	logger *zap.Logger
}

// NewServer creates a new API server around an initialized bot.
func NewServer(b *bot.BasicBot, logger *zap.Logger) *Server {
	s := &Server{
		bot:    b,
		router: mux.NewRouter(),
		logger: logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/order", s.handlePlaceOrder).Methods("POST")
	s.router.HandleFunc("/api/grid", s.handlePlaceGrid).Methods("POST")
	s.router.HandleFunc("/api/filters", s.handleGetFilters).Methods("GET")
	s.router.HandleFunc("/api/diagnostics", s.handleDiagnostics).Methods("GET")
	s.router.HandleFunc("/api/balance", s.handleGetBalance).Methods("GET")
	s.router.HandleFunc("/api/positions", s.handleGetPositions).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// Start blocks serving HTTP on addr until the listener fails.
func (s *Server) Start(addr string) error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.logger.Info("web server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, c.Handler(s.router))
}

// orderIn is the JSON shape accepted by POST /api/order.
// Decimal fields accept both JSON numbers and strings.
type orderIn struct {
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	StopPrice   decimal.Decimal `json:"stop_price"`
	TimeInForce string          `json:"time_in_force"`
	Strict      bool            `json:"strict"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in orderIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req := models.OrderRequest{
		Symbol:      in.Symbol,
		Side:        models.Side(in.Side),
		Type:        models.OrderType(in.Type),
		Quantity:    in.Quantity,
		Price:       in.Price,
		StopPrice:   in.StopPrice,
		TimeInForce: in.TimeInForce,
	}

	res := s.bot.PlaceOrder(req, "web", in.Strict)
	respondJSON(w, res)
}

type gridIn struct {
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Levels      int             `json:"levels"`
	StepPct     decimal.Decimal `json:"step_pct"`
	Quantity    decimal.Decimal `json:"quantity"`
	BasePrice   decimal.Decimal `json:"base_price"`
	TimeInForce string          `json:"time_in_force"`
}

func (s *Server) handlePlaceGrid(w http.ResponseWriter, r *http.Request) {
	var in gridIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := s.bot.PlaceGridOrders(bot.GridParams{
		Symbol:      in.Symbol,
		Side:        models.Side(in.Side),
		Levels:      in.Levels,
		StepPct:     in.StepPct,
		Quantity:    in.Quantity,
		BasePrice:   in.BasePrice,
		TimeInForce: in.TimeInForce,
	}, "web")
	if err != nil {
		respondError(w, http.StatusBadRequest, "grid placement failed", err.Error())
		return
	}
	respondJSON(w, session)
}

func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "missing symbol", "use ?symbol=BTCUSDT")
		return
	}

	f, err := s.bot.SymbolFilters(symbol)
	if err != nil {
		respondError(w, http.StatusNotFound, "filters not found", err.Error())
		return
	}

	respondJSON(w, map[string]string{
		"symbol":    f.Symbol,
		"price_min": f.PriceMin.String(),
		"price_max": f.PriceMax.String(),
		"tick_size": f.TickSize.String(),
		"qty_min":   f.QtyMin.String(),
		"qty_max":   f.QtyMax.String(),
		"step_size": f.StepSize.String(),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	respondJSON(w, s.bot.Diagnostics(symbol))
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	if s.bot.DryRun() {
		respondError(w, http.StatusForbidden, "dry-run mode", "balance queries need API credentials")
		return
	}

	balances, err := s.bot.Client().GetBalances()
	if err != nil {
		respondError(w, http.StatusBadGateway, "balance query failed", err.Error())
		return
	}
	respondJSON(w, balances)
}

func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	if s.bot.DryRun() {
		respondError(w, http.StatusForbidden, "dry-run mode", "position queries need API credentials")
		return
	}

	positions, err := s.bot.Client().GetPositions(r.URL.Query().Get("symbol"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "position query failed", err.Error())
		return
	}
	respondJSON(w, positions)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"status":  "ok",
		"dry_run": s.bot.DryRun(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: error, Message: message})
}

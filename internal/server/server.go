// Package server is the HTTP surface: document upload (multipart or Google
// Drive), chat against the indexed document, health and metrics. It owns the
// session swap lock around index rebuilds.
package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ragloop/selfrag/internal/config"
	"github.com/ragloop/selfrag/internal/llm"
	"github.com/ragloop/selfrag/internal/processing"
	"github.com/ragloop/selfrag/internal/storage"
)

type Server struct {
	logger   *zap.Logger
	router   *mux.Router
	pool     *pgxpool.Pool
	redis    *redis.Client
	store    *storage.VectorStore
	embedder processing.Embedder

	reasoning llm.Client
	grader    llm.Client

	sessions *SessionManager
	cache    *AnswerCache

	driveToken  string
	frontendDir string
	topK        int
}

func New(cfg config.Config, logger *zap.Logger, pool *pgxpool.Pool, redisClient *redis.Client,
	embedder processing.Embedder, reasoning, grader llm.Client) *Server {

	s := &Server{
		logger:      logger,
		pool:        pool,
		redis:       redisClient,
		store:       storage.NewVectorStore(pool),
		embedder:    embedder,
		reasoning:   reasoning,
		grader:      grader,
		sessions:    NewSessionManager(),
		cache:       NewAnswerCache(redisClient),
		driveToken:  cfg.DriveAccessToken,
		frontendDir: cfg.FrontendDir,
		topK:        cfg.TopK,
	}

	r := mux.NewRouter()

	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/upload/gdrive", s.handleUploadDrive).Methods(http.MethodPost)
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	// Static frontend, same mount the upstream UI expects.
	if _, err := os.Stat(s.frontendDir); err == nil {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.frontendDir)))
	}

	s.router = r
	return s
}

// Router wraps the mux with the request-ID and CORS middleware so preflight
// requests are answered even for unmatched method/route pairs.
func (s *Server) Router() http.Handler {
	return s.requestID(cors(s.router))
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError mirrors the {"detail": ...} error body existing clients parse.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ragloop/selfrag/internal/graph"
	"github.com/ragloop/selfrag/internal/ingestion"
	"github.com/ragloop/selfrag/internal/processing"
	"github.com/ragloop/selfrag/internal/storage"
)

// defaultTemperature matches what the upstream client sends when the slider
// is untouched.
const defaultTemperature = 0.5

type chatRequest struct {
	Question    string   `json:"question"`
	Temperature *float64 `json:"temperature"`
}

type chatResponse struct {
	Answer        string `json:"answer"`
	FinalQuestion string `json:"final_question"`
}

type uploadResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type driveRequest struct {
	FolderID string `json:"folder_id"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("/upload").Observe(time.Since(start).Seconds())
	}()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !ingestion.Supported(header.Filename) {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", header.Filename))
		return
	}

	tmpDir, err := os.MkdirTemp("", "selfrag_upload")
	if err != nil {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err == nil {
		_, err = io.Copy(dst, file)
		dst.Close()
	}
	if err != nil {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("processing upload", zap.String("filename", header.Filename))

	text, err := ingestion.ExtractText(path)
	if err != nil {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		s.logger.Error("text extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	count, err := s.index(r.Context(), header.Filename, []string{text})
	if err != nil {
		requestsTotal.WithLabelValues("/upload", "error").Inc()
		s.logger.Error("indexing failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	requestsTotal.WithLabelValues("/upload", "success").Inc()
	writeJSON(w, http.StatusOK, uploadResponse{
		Message: "File processed and indexed successfully",
		Count:   count,
	})
}

func (s *Server) handleUploadDrive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("/upload/gdrive").Observe(time.Since(start).Seconds())
	}()

	var req driveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FolderID == "" {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		writeError(w, http.StatusBadRequest, "folder_id is required")
		return
	}

	source, err := ingestion.NewDriveSource(r.Context(), s.driveToken)
	if err != nil {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpDir, err := os.MkdirTemp("", "selfrag_gdrive")
	if err != nil {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(tmpDir)

	paths, err := source.FetchFolder(r.Context(), req.FolderID, tmpDir)
	if err != nil {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		s.logger.Error("drive fetch failed", zap.String("folder_id", req.FolderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(paths) == 0 {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		writeError(w, http.StatusBadRequest, "no supported files in folder")
		return
	}

	var texts []string
	for _, p := range paths {
		text, err := ingestion.ExtractText(p)
		if err != nil {
			s.logger.Warn("skipping file", zap.String("path", p), zap.Error(err))
			continue
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		writeError(w, http.StatusInternalServerError, "no text could be extracted from folder")
		return
	}

	count, err := s.index(r.Context(), "gdrive:"+req.FolderID, texts)
	if err != nil {
		requestsTotal.WithLabelValues("/upload/gdrive", "error").Inc()
		s.logger.Error("indexing failed", zap.String("folder_id", req.FolderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	requestsTotal.WithLabelValues("/upload/gdrive", "success").Inc()
	writeJSON(w, http.StatusOK, uploadResponse{
		Message: fmt.Sprintf("Indexed %d file(s) from Google Drive", len(texts)),
		Count:   count,
	})
}

// index chunks and embeds the extracted texts, then replaces the vector index
// and the active session under the session write lock.
func (s *Server) index(ctx context.Context, source string, texts []string) (int, error) {
	var contents []string
	for _, t := range texts {
		chunks, err := processing.ChunkText(t)
		if err != nil {
			return 0, fmt.Errorf("chunking: %w", err)
		}
		contents = append(contents, chunks...)
	}
	if len(contents) == 0 {
		return 0, errors.New("document produced no chunks")
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("embedding: %w", err)
	}

	err = s.sessions.Swap(func() (*Session, error) {
		if err := s.store.Rebuild(ctx, source, contents, embeddings, s.embedder.Dimension()); err != nil {
			return nil, fmt.Errorf("rebuilding index: %w", err)
		}
		retriever := storage.NewRetriever(s.store, s.embedder, s.topK)
		return &Session{
			Workflow:   graph.NewWorkflow(retriever, s.reasoning, s.grader, s.logger),
			ChunkCount: len(contents),
		}, nil
	})
	if err != nil {
		return 0, err
	}

	indexedChunks.Set(float64(len(contents)))
	return len(contents), nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("/chat").Observe(time.Since(start).Seconds())
	}()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		requestsTotal.WithLabelValues("/chat", "error").Inc()
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	s.logger.Info("received chat request", zap.String("question", req.Question))

	var result *graph.Result
	err := s.sessions.Use(func(session *Session, generation uint64) error {
		if cached, ok := s.cache.Get(r.Context(), generation, req.Question, temperature); ok {
			cacheHitsTotal.Inc()
			result = cached
			return nil
		}
		cacheMissesTotal.Inc()

		run, err := session.Workflow.Run(r.Context(), req.Question, temperature)
		if err != nil {
			return err
		}
		generateAttempts.Observe(float64(run.Attempts))
		if err := s.cache.Set(r.Context(), generation, req.Question, temperature, run); err != nil {
			s.logger.Warn("failed to cache answer", zap.Error(err))
		}
		result = run
		return nil
	})

	if errors.Is(err, ErrNoSession) {
		requestsTotal.WithLabelValues("/chat", "error").Inc()
		writeError(w, http.StatusBadRequest, "Please upload a document first.")
		return
	}
	if err != nil {
		requestsTotal.WithLabelValues("/chat", "error").Inc()
		s.logger.Error("workflow run failed", zap.String("question", req.Question), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	requestsTotal.WithLabelValues("/chat", "success").Inc()
	writeJSON(w, http.StatusOK, chatResponse{
		Answer:        result.Answer,
		FinalQuestion: result.FinalQuestion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":   "healthy",
		"postgres": "disconnected",
		"redis":    "disconnected",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.pool != nil {
		if err := s.pool.Ping(ctx); err == nil {
			health["postgres"] = "connected"
		}
	}
	if s.redis != nil {
		if _, err := s.redis.Ping(ctx).Result(); err == nil {
			health["redis"] = "connected"
		}
	}

	writeJSON(w, http.StatusOK, health)
}

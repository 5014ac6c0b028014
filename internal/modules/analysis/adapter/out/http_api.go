package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"resumedash/internal/modules/analysis/domain"
	analysisout "resumedash/internal/modules/analysis/port/out"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/platform/id"
	"resumedash/internal/platform/logging"
)

const (
	pathUpload    = "/api/upload-resume"
	pathAnalyze   = "/api/analyze-resume"
	pathScore     = "/api/ats-score"
	pathRecommend = "/api/job-recommendations"
	pathHealth    = "/health"
)

// HTTPAnalysisAPI calls the resume backend over HTTP.
type HTTPAnalysisAPI struct {
	baseURL string
	client  *http.Client
	ids     id.Generator
	logger  *slog.Logger
}

func NewHTTPAnalysisAPI(baseURL string, client *http.Client, logger *slog.Logger) analysisout.AnalysisAPI {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPAnalysisAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		ids:     id.UUID{},
		logger:  logger,
	}
}

func (a *HTTPAnalysisAPI) BaseURL() string {
	return a.baseURL
}

type resumeRequest struct {
	ResumeID string `json:"resume_id"`
}

type uploadResponse struct {
	ResumeID string `json:"resume_id"`
	URL      string `json:"url"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

type jobsResponse struct {
	Jobs []string `json:"jobs"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *HTTPAnalysisAPI) UploadResume(ctx context.Context, token string, file domain.ResumeFile) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, file.Name))
	header.Set("Content-Type", file.MimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	raw, err := a.send(ctx, http.MethodPost, pathUpload, token, form.FormDataContentType(), body.Bytes())
	if err != nil {
		return "", err
	}
	resp := uploadResponse{}
	if err := decode(pathUpload, raw, &resp); err != nil {
		return "", err
	}
	return resp.ResumeID, nil
}

func (a *HTTPAnalysisAPI) AnalyzeResume(ctx context.Context, token, resumeID string) (domain.Findings, error) {
	raw, err := a.postJSON(ctx, pathAnalyze, token, resumeRequest{ResumeID: resumeID})
	if err != nil {
		return domain.Findings{}, err
	}
	findings := domain.Findings{}
	if err := decode(pathAnalyze, raw, &findings); err != nil {
		return domain.Findings{}, err
	}
	return findings, nil
}

func (a *HTTPAnalysisAPI) ScoreResume(ctx context.Context, token, resumeID string) (int, error) {
	raw, err := a.postJSON(ctx, pathScore, token, resumeRequest{ResumeID: resumeID})
	if err != nil {
		return 0, err
	}
	resp := scoreResponse{}
	if err := decode(pathScore, raw, &resp); err != nil {
		return 0, err
	}
	return domain.ClampScore(int(math.Round(resp.Score))), nil
}

func (a *HTTPAnalysisAPI) RecommendJobs(ctx context.Context, token, resumeID string) ([]string, error) {
	raw, err := a.postJSON(ctx, pathRecommend, token, resumeRequest{ResumeID: resumeID})
	if err != nil {
		return nil, err
	}
	resp := jobsResponse{}
	if err := decode(pathRecommend, raw, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (a *HTTPAnalysisAPI) Health(ctx context.Context) (string, error) {
	raw, err := a.send(ctx, http.MethodGet, pathHealth, "", "", nil)
	if err != nil {
		return "", err
	}
	resp := healthResponse{}
	if err := decode(pathHealth, raw, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (a *HTTPAnalysisAPI) postJSON(ctx context.Context, path, token string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", path, err)
	}
	return a.send(ctx, http.MethodPost, path, token, "application/json", body)
}

// send performs one round trip. Transport failures become NetworkError and
// non-2xx responses become BackendError carrying the body's "error" field.
func (a *HTTPAnalysisAPI) send(ctx context.Context, method, path, token, contentType string, body []byte) ([]byte, error) {
	if a.baseURL == "" {
		return nil, fmt.Errorf("%w: backend url (set RESUMEDASH_BACKEND_URL)", apperrors.ErrNotConfigured)
	}
	reqID := a.ids.New()
	start := time.Now()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		a.logger.Error("analysis.http.build_request_error", "req_id", reqID, "endpoint", path, "error", err)
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	a.logger.Info("analysis.http.request",
		"req_id", reqID,
		"method", method,
		"endpoint", path,
		"content_length", len(body),
	)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("analysis.http.send_error", "req_id", reqID, "endpoint", path, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, &apperrors.NetworkError{Op: method + " " + path, Err: err}
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			a.logger.Warn("analysis.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.NetworkError{Op: method + " " + path, Err: err}
	}

	a.logger.Info("analysis.http.response",
		"req_id", reqID,
		"endpoint", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		errBody := errorResponse{}
		_ = json.Unmarshal(raw, &errBody)
		return nil, &apperrors.BackendError{Endpoint: path, Status: resp.StatusCode, Message: strings.TrimSpace(errBody.Error)}
	}
	return raw, nil
}

func decode(path string, raw []byte, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", apperrors.ErrBackend, path, err)
	}
	return nil
}

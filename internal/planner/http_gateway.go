package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/validation"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPGateway is a Gateway over the server's /api/v1 routes, authenticated
// with a store access key.
type HTTPGateway struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

// NewHTTPGateway creates a gateway for the store at baseURL.
func NewHTTPGateway(baseURL, accessKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		client:    &http.Client{Timeout: timeout},
	}
}

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields"`
}

func (g *HTTPGateway) FetchAll(ctx context.Context) ([]domain.PlanRecord, error) {
	var plans []domain.PlanRecord
	if err := g.do(ctx, "fetch", domain.PlanKey{}, http.MethodGet, "/api/v1/plans", nil, &plans); err != nil {
		return nil, err
	}
	return normalizePlans(plans), nil
}

func (g *HTTPGateway) Upsert(ctx context.Context, plan *domain.PlanRecord) (*domain.PlanRecord, error) {
	method, path := http.MethodPut, "/api/v1/plans"
	if plan.IsPublished() {
		method, path = http.MethodPost, "/api/v1/plans/publish"
	}
	body := planRequest{
		PlanKey:            plan.PlanKey,
		PlanContent:        plan.PlanContent,
		CreatedByCoachName: plan.CreatedByCoachName,
	}
	var saved domain.PlanRecord
	if err := g.do(ctx, "upsert", plan.PlanKey, method, path, body, &saved); err != nil {
		return nil, err
	}
	saved.PlanContent = saved.PlanContent.Normalize()
	return &saved, nil
}

// Templates fetches the built-in templates served by the store.
func (g *HTTPGateway) Templates(ctx context.Context) ([]domain.Template, error) {
	var resp []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		domain.PlanContent
	}
	if err := g.do(ctx, "fetch templates", domain.PlanKey{}, http.MethodGet, "/api/v1/templates", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(resp))
	for _, t := range resp {
		out = append(out, domain.Template{ID: t.ID, Name: t.Name, PlanContent: t.PlanContent.Normalize()})
	}
	return out, nil
}

// SubmitReflection posts a player's reflection.
func (g *HTTPGateway) SubmitReflection(ctx context.Context, r *domain.Reflection) (*domain.Reflection, error) {
	var saved domain.Reflection
	if err := g.do(ctx, "submit reflection", r.PlanKey, http.MethodPost, "/api/v1/reflections", r, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Reflections lists reflections for a plan. Coach keys only.
func (g *HTTPGateway) Reflections(ctx context.Context, key domain.PlanKey) ([]domain.Reflection, error) {
	q := url.Values{}
	q.Set("teamId", key.TeamID)
	q.Set("date", key.Date)
	q.Set("gradeGroup", string(key.GradeGroup))
	var out []domain.Reflection
	if err := g.do(ctx, "list reflections", key, http.MethodGet, "/api/v1/reflections?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// planRequest mirrors the server's PUT /plans body.
type planRequest struct {
	domain.PlanKey
	domain.PlanContent
	CreatedByCoachName string `json:"createdByCoachName"`
}

func (g *HTTPGateway) do(ctx context.Context, op string, key domain.PlanKey, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Key: key, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.accessKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Key: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.decodeError(op, key, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Key: key, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (g *HTTPGateway) decodeError(op string, key domain.PlanKey, resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
	msg := eb.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return &ConstraintError{Key: key, Err: errors.New(msg)}
	case http.StatusUnprocessableEntity:
		if len(eb.Fields) > 0 {
			return &ValidationError{Fields: eb.Fields}
		}
	}
	return &NetworkError{Op: op, Key: key, Status: resp.StatusCode, Err: errors.New(msg)}
}

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seefood/pkg/model"
)

const DefaultSeeFoodURL = "http://localhost:8080"

// SeeFood is a client of the SeeFood REST API. Requests carry the bearer
// token of the injected session when it holds one.
type SeeFood struct {
	baseURL    string
	httpClient *http.Client
	session    *model.Session
}

type SeeFoodOption func(*SeeFood)

func WithHTTPClient(client *http.Client) SeeFoodOption {
	return func(s *SeeFood) {
		s.httpClient = client
	}
}

func WithSession(session *model.Session) SeeFoodOption {
	return func(s *SeeFood) {
		s.session = session
	}
}

// NewSeeFood creates a SeeFood API client
func NewSeeFood(baseURL string, opts ...SeeFoodOption) *SeeFood {
	if baseURL == "" {
		baseURL = DefaultSeeFoodURL
	}
	s := &SeeFood{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session: &model.Session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoggedIn reports whether requests carry a bearer token
func (s *SeeFood) LoggedIn() bool {
	return s.session.LoggedIn()
}

// envelope is the common response wrapper of the API
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`

	raw []byte
}

func (x *envelope) hasData() bool {
	d := bytes.TrimSpace(x.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

var (
	codeOK         = []int{200}
	codeOKOrLegacy = []int{200, 0}
)

func (s *SeeFood) do(ctx context.Context, method, path string, body any, accepted []int) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal request body", goerr.V("path", path))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := s.session.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.V("method", method), goerr.V("path", path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response", goerr.V("path", path))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// error bodies usually still carry the envelope message
		var env envelope
		msg := "SeeFood API returned error status"
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, goerr.Wrap(model.ErrAPIStatus, msg,
			goerr.V("status", resp.StatusCode),
			goerr.V("path", path),
			goerr.V("body", string(raw)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response", goerr.V("path", path), goerr.V("body", string(raw)))
	}
	env.raw = raw

	if !slices.Contains(accepted, env.Code) {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return nil, goerr.Wrap(model.ErrAPIFailure, msg,
			goerr.V("code", env.Code),
			goerr.V("path", path))
	}

	return &env, nil
}

// Recognize sends a base64 encoded image to the identification endpoint
func (s *SeeFood) Recognize(ctx context.Context, base64Image string) (*model.RecognitionResult, error) {
	env, err := s.do(ctx, http.MethodPost, "/seefood/ai/pic", map[string]string{"base64": base64Image}, codeOK)
	if err != nil {
		return nil, err
	}
	if !env.hasData() {
		return nil, goerr.Wrap(model.ErrAPIFailure, "Identification failed, please try again")
	}

	var result model.RecognitionResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode recognition result")
	}
	return &result, nil
}

// LoginResult is the outcome of a successful login
type LoginResult struct {
	User  model.User
	Token string
}

// Login authenticates with username and password. The token is looked up in
// the places listed by model.ExtractToken.
func (s *SeeFood) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	input := map[string]string{
		"username": username,
		"password": password,
	}
	env, err := s.do(ctx, http.MethodPost, "/seefood/user/login", input, codeOK)
	if err != nil {
		return nil, err
	}

	var body map[string]any
	if err := json.Unmarshal(env.raw, &body); err != nil {
		return nil, goerr.Wrap(err, "failed to decode login response")
	}

	user := model.User{}
	if data, ok := body["data"].(map[string]any); ok {
		for k, v := range data {
			user[k] = v
		}
	}
	if user.Username() == "" {
		user["username"] = username
	}

	return &LoginResult{
		User:  user,
		Token: model.ExtractToken(body),
	}, nil
}

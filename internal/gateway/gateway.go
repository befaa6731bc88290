// Package gateway holds the HTTP clients for the two services this
// client consumes: the agent platform that generates digests and the
// scheduler that triggers deliveries. Responses arrive wrapped in
// success envelopes; the helpers here unwrap them and nothing more.
// Digest shape validation stays with the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

// maxBodyBytes bounds how much of a gateway response is read. Digests
// are a few KB; anything near this limit is garbage.
const maxBodyBytes = 4 << 20

// --- Agent invocation ---

// AgentClient invokes the digest-generation agent.
type AgentClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAgentClient(baseURL, apiKey string, timeout time.Duration) *AgentClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AgentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type invokeRequest struct {
	AgentID     string `json:"agent_id"`
	Instruction string `json:"instruction"`
}

type invokeEnvelope struct {
	Success  bool `json:"success"`
	Response *struct {
		Result json.RawMessage `json:"result"`
	} `json:"response"`
	Error string `json:"error"`
}

// Invoke runs the agent with the given instruction and returns the raw
// result payload from the envelope.
func (a *AgentClient) Invoke(ctx context.Context, instruction, agentID string) (json.RawMessage, error) {
	body, _ := json.Marshal(invokeRequest{AgentID: agentID, Instruction: instruction})

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/agents/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("x-api-key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("agent API %d: %s", resp.StatusCode, string(b))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading agent response: %w", err)
	}
	return parseInvokeEnvelope(raw)
}

func parseInvokeEnvelope(raw []byte) (json.RawMessage, error) {
	var env invokeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding agent response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("agent invocation failed: %s", env.Error)
		}
		return nil, fmt.Errorf("agent invocation failed")
	}
	if env.Response == nil {
		return nil, fmt.Errorf("agent response missing result")
	}
	return env.Response.Result, nil
}

// --- Schedule service ---

// ScheduleClient reads and toggles the remote delivery schedule.
type ScheduleClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewScheduleClient(baseURL, apiKey string, timeout time.Duration) *ScheduleClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScheduleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type scheduleEnvelope struct {
	Success  bool             `json:"success"`
	Schedule *digest.Schedule `json:"schedule"`
	Error    string           `json:"error"`
}

type logsEnvelope struct {
	Success    bool                  `json:"success"`
	Executions []digest.ExecutionLog `json:"executions"`
	Error      string                `json:"error"`
}

type ackEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *ScheduleClient) Get(ctx context.Context, id string) (digest.Schedule, error) {
	raw, err := s.do(ctx, "GET", fmt.Sprintf("%s/v1/schedules/%s", s.baseURL, url.PathEscape(id)))
	if err != nil {
		return digest.Schedule{}, err
	}
	return parseScheduleEnvelope(raw)
}

func (s *ScheduleClient) Pause(ctx context.Context, id string) error {
	raw, err := s.do(ctx, "POST", fmt.Sprintf("%s/v1/schedules/%s/pause", s.baseURL, url.PathEscape(id)))
	if err != nil {
		return err
	}
	return parseAck(raw, "pause")
}

func (s *ScheduleClient) Resume(ctx context.Context, id string) error {
	raw, err := s.do(ctx, "POST", fmt.Sprintf("%s/v1/schedules/%s/resume", s.baseURL, url.PathEscape(id)))
	if err != nil {
		return err
	}
	return parseAck(raw, "resume")
}

func (s *ScheduleClient) Logs(ctx context.Context, id string, limit int) ([]digest.ExecutionLog, error) {
	raw, err := s.do(ctx, "GET", fmt.Sprintf("%s/v1/schedules/%s/executions?limit=%d", s.baseURL, url.PathEscape(id), limit))
	if err != nil {
		return nil, err
	}
	return parseLogsEnvelope(raw)
}

func (s *ScheduleClient) do(ctx context.Context, method, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("schedule API %d: %s", resp.StatusCode, string(b))
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func parseScheduleEnvelope(raw []byte) (digest.Schedule, error) {
	var env scheduleEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return digest.Schedule{}, fmt.Errorf("decoding schedule response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return digest.Schedule{}, fmt.Errorf("schedule fetch failed: %s", env.Error)
		}
		return digest.Schedule{}, fmt.Errorf("schedule fetch failed")
	}
	if env.Schedule == nil {
		return digest.Schedule{}, fmt.Errorf("schedule response missing schedule")
	}
	return *env.Schedule, nil
}

func parseLogsEnvelope(raw []byte) ([]digest.ExecutionLog, error) {
	var env logsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding executions response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("execution log fetch failed: %s", env.Error)
		}
		return nil, fmt.Errorf("execution log fetch failed")
	}
	return env.Executions, nil
}

func parseAck(raw []byte, op string) error {
	var env ackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("schedule %s failed: %s", op, env.Error)
		}
		return fmt.Errorf("schedule %s failed", op)
	}
	return nil
}

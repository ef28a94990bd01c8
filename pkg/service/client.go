package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ivikasavnish/go-scriptgen/pkg/actions"
)

// Client is a typed HTTP client for the script generation server
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new client for the given server base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// CreateSession uploads a recorded session under the given id
func (c *Client) CreateSession(id string, session *actions.Session) error {
	payload := CreateSessionRequest{
		ID:      id,
		Session: session,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	resp, err := c.client.Post(
		fmt.Sprintf("%s/sessions", c.baseURL),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to create session, status: %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// GetSession fetches a stored recording by id
func (c *Client) GetSession(id string) (*Recording, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/sessions/%s", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get session, status: %d, body: %s", resp.StatusCode, string(body))
	}

	var rec Recording
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &rec, nil
}

// ListSessions fetches every stored recording
func (c *Client) ListSessions() ([]*Recording, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/sessions", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list sessions, status: %d, body: %s", resp.StatusCode, string(body))
	}

	var recordings []*Recording
	if err := json.NewDecoder(resp.Body).Decode(&recordings); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return recordings, nil
}

// DeleteSession removes a stored recording by id
func (c *Client) DeleteSession(id string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/sessions/%s", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete session, status: %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// GenerateScript asks the server to render a stored session as source code
func (c *Client) GenerateScript(id string, req *GenerateRequest) (string, error) {
	if req == nil {
		req = &GenerateRequest{}
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	resp, err := c.client.Post(
		fmt.Sprintf("%s/sessions/%s/generate", c.baseURL, id),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to generate script, status: %d, body: %s", resp.StatusCode, string(body))
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	return out.Script, nil
}

// Devices fetches the names of the device presets known to the server
func (c *Client) Devices() ([]string, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/devices", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list devices, status: %d, body: %s", resp.StatusCode, string(body))
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}

	return names, nil
}

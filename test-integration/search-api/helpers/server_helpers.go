package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/onsi/gomega"

	searchapp "github.com/stacklok/toolhive-search/internal/app"
	"github.com/stacklok/toolhive-search/internal/config"
)

// ServerTestHelper manages the search API server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	address    string
	httpClient *http.Client
	app        *searchapp.SearchApp
}

// NewServerTestHelper creates a helper for a server on a free loopback port
func NewServerTestHelper(ctx context.Context, configPath string) (*ServerTestHelper, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to find a free port: %w", err)
	}
	address := listener.Addr().String()
	if err := listener.Close(); err != nil {
		return nil, err
	}

	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    address,
		baseURL:    "http://" + address,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// StartServer loads the configuration and starts the server in the background
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := searchapp.NewSearchApp(s.ctx,
		searchapp.WithConfig(cfg),
		searchapp.WithAddress(s.address),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = app

	go func() {
		if err := app.Start(); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits until the readiness endpoint reports ready
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/readiness")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 200*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// Get sends a GET request to path, with a bearer token when token is not empty
func (s *ServerTestHelper) Get(path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.httpClient.Do(req)
}

// Search runs a global search and decodes the response
func (s *ServerTestHelper) Search(query, token string) SearchResponse {
	resp, err := s.Get("/v1/search?q="+url.QueryEscape(query), token)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	var out SearchResponse
	decode(resp, http.StatusOK, &out)
	return out
}

// ResolveExclusions returns the entity types excluded for query
func (s *ServerTestHelper) ResolveExclusions(query, token string) []string {
	resp, err := s.Get("/v1/exclusions/resolve?q="+url.QueryEscape(query), token)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	var out struct {
		Excluded []string `json:"excluded"`
	}
	decode(resp, http.StatusOK, &out)
	return out.Excluded
}

func decode(resp *http.Response, wantStatus int, v any) {
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(resp.StatusCode).To(gomega.Equal(wantStatus), string(body))
	gomega.Expect(json.Unmarshal(body, v)).To(gomega.Succeed())
}

// SearchResponse is the global search response body
type SearchResponse struct {
	Categories []struct {
		Name    string `json:"name"`
		Results []struct {
			Title   string            `json:"title"`
			URL     string            `json:"url"`
			Details map[string]string `json:"details"`
		} `json:"results"`
	} `json:"categories"`
}

// CategoryNames lists the categories in response order
func (r SearchResponse) CategoryNames() []string {
	names := []string{}
	for _, c := range r.Categories {
		names = append(names, c.Name)
	}
	return names
}

// Titles lists the result titles of the named category
func (r SearchResponse) Titles(category string) []string {
	titles := []string{}
	for _, c := range r.Categories {
		if c.Name != category {
			continue
		}
		for _, res := range c.Results {
			titles = append(titles, res.Title)
		}
	}
	return titles
}

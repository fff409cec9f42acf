// Package api is the client for the Lost Ark developer API. It attaches the
// resolved API key to each request and turns HTTP failures into *Error values.
package api

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

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	"loa-character-lookup/internal/i18n"
	"loa-character-lookup/internal/models"
)

const (
	// DefaultBaseURL is the Lost Ark developer API host.
	DefaultBaseURL = "https://developer-lostark.game.onstove.com"

	// DefaultTimeout bounds a single round trip of the default HTTP client.
	DefaultTimeout = 30 * time.Second

	rosterPath  = "/characters/%s/siblings"
	profilePath = "/armories/characters/%s"

	// bytes of an error body kept for the debug log
	errorBodyLimit = 512
)

// Client issues roster and profile lookups. It keeps no per-call state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	printer    *message.Printer
	validate   *validator.Validate
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit paces outgoing requests to requestsPerMinute. Requests wait
// for a slot; nothing is retried. Zero or less disables pacing.
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		if requestsPerMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}
}

// WithLocale selects the language of error messages.
func WithLocale(tag language.Tag) ClientOption {
	return func(c *Client) {
		c.printer = i18n.Printer(tag)
	}
}

// NewClient creates a client that authorizes every request with a token
// taken from tokens at request time.
func NewClient(tokens oauth2.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		printer:  i18n.Printer(i18n.DefaultLocale),
		validate: validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Headers builds the request headers from the current credential.
func (c *Client) Headers() (http.Header, error) {
	accessToken := ""
	tokenType := ""
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve API key: %w", err)
		}
		accessToken = tok.AccessToken
		tokenType = tok.TokenType
	}
	if tokenType == "" {
		tokenType = "bearer"
	}

	h := make(http.Header, 2)
	h.Set("Authorization", tokenType+" "+accessToken)
	h.Set("Content-Type", "application/json")
	return h, nil
}

// FetchRoster returns the named character and every character on the same
// expedition, in the order upstream lists them.
func (c *Client) FetchRoster(ctx context.Context, characterName string) (models.Roster, error) {
	endpoint := characterPath(rosterPath, characterName)
	body, err := c.get(ctx, endpoint, characterName)
	if err != nil {
		return nil, err
	}

	var roster models.Roster
	if err := json.Unmarshal(body, &roster); err != nil {
		return nil, c.parseError(endpoint, characterName, err)
	}
	for i := range roster {
		if err := c.validate.Struct(&roster[i]); err != nil {
			return nil, c.parseError(endpoint, characterName, fmt.Errorf("roster entry %d: %w", i, err))
		}
	}

	return roster, nil
}

// FetchProfile returns the armory profile of the named character.
func (c *Client) FetchProfile(ctx context.Context, characterName string) (*models.CharacterProfile, error) {
	endpoint := characterPath(profilePath, characterName)
	body, err := c.get(ctx, endpoint, characterName)
	if err != nil {
		return nil, err
	}

	var profile models.CharacterProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, c.parseError(endpoint, characterName, err)
	}
	if err := c.validate.Struct(&profile); err != nil {
		return nil, c.parseError(endpoint, characterName, err)
	}

	return &profile, nil
}

// characterPath fills a path template with the escaped character name.
// Names may contain spaces and Hangul, so they are escaped as one segment.
func characterPath(template, characterName string) string {
	return fmt.Sprintf(template, url.PathEscape(characterName))
}

// get performs a GET request and returns the body of a successful response.
// A JSON null body, which upstream sends for unknown names, is a NotFound.
func (c *Client) get(ctx context.Context, endpoint, characterName string) ([]byte, error) {
	if strings.TrimSpace(characterName) == "" {
		return nil, c.notFound(endpoint, characterName)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.transportError(endpoint, characterName, err)
		}
	}

	headers, err := c.Headers()
	if err != nil {
		return nil, c.transportError(endpoint, characterName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, c.transportError(endpoint, characterName, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header = headers

	if c.logger != nil {
		c.logger.Debug().Str("endpoint", endpoint).Str("character", characterName).Msg("Lost Ark API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Lost Ark API request failed")
		}
		return nil, c.transportError(endpoint, characterName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		if c.logger != nil {
			c.logger.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Str("body", string(snippet)).Msg("Lost Ark API returned error status")
		}
		return nil, c.statusError(resp.StatusCode, endpoint, characterName)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(endpoint, characterName, fmt.Errorf("failed to read response: %w", err))
	}
	if c.logger != nil {
		c.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Str("endpoint", endpoint).Msg("Lost Ark API response")
	}

	trimmed := bytes.TrimSpace(body)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, c.notFound(endpoint, characterName)
	}
	return trimmed, nil
}

// statusError classifies a non-2xx status: 429 first, then 404, then the rest.
func (c *Client) statusError(status int, endpoint, characterName string) *Error {
	switch status {
	case http.StatusTooManyRequests:
		return &Error{
			Kind:       KindRateLimited,
			StatusCode: status,
			Character:  characterName,
			Endpoint:   endpoint,
			Message:    c.printer.Sprintf(i18n.MsgRateLimited),
		}
	case http.StatusNotFound:
		e := c.notFound(endpoint, characterName)
		e.StatusCode = status
		return e
	default:
		return &Error{
			Kind:       KindTransport,
			StatusCode: status,
			Character:  characterName,
			Endpoint:   endpoint,
			Message:    c.printer.Sprintf(i18n.MsgRequestFailed, status),
		}
	}
}

func (c *Client) notFound(endpoint, characterName string) *Error {
	return &Error{
		Kind:      KindNotFound,
		Character: characterName,
		Endpoint:  endpoint,
		Message:   c.printer.Sprintf(i18n.MsgNotFound, characterName),
	}
}

func (c *Client) transportError(endpoint, characterName string, err error) *Error {
	return &Error{
		Kind:      KindTransport,
		Character: characterName,
		Endpoint:  endpoint,
		Message:   c.printer.Sprintf(i18n.MsgNetworkFailure),
		Err:       err,
	}
}

func (c *Client) parseError(endpoint, characterName string, err error) *Error {
	if c.logger != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Unexpected Lost Ark API response shape")
	}
	return &Error{
		Kind:      KindParse,
		Character: characterName,
		Endpoint:  endpoint,
		Message:   c.printer.Sprintf(i18n.MsgInvalidBody),
		Err:       err,
	}
}

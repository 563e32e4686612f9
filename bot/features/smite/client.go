package smite

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cogbot/domain/entities"
	"cogbot/infrastructure/web"
)

const (
	apiURL          = "http://api.smitegame.com/smiteapi.svc"
	timestampLayout = "20060102150405"
	sourceLabel     = "smiteapi"
)

var errSessionRejected = errors.New("smite api rejected session request")

type fetcher interface {
	GetBytes(ctx context.Context, req web.Request) ([]byte, error)
	GetJSON(ctx context.Context, req web.Request, v any) error
}

// Signature signs a Hi-Rez API call: md5(devID + method + authKey + timestamp)
func Signature(devID, method, authKey, timestamp string) string {
	sum := md5.Sum([]byte(devID + method + authKey + timestamp))
	return hex.EncodeToString(sum[:])
}

// Client calls the Smite PC API
type Client struct {
	web     fetcher
	baseURL string
	now     func() time.Time
}

func NewClient(client fetcher) *Client {
	return &Client{web: client, baseURL: apiURL, now: time.Now}
}

// methodURL builds <base>/<method>Json/<devid>/<signature>[/<session>]/<timestamp>[/args...]
func (c *Client) methodURL(creds *entities.SmiteCredentials, method string, withSession bool, args ...string) string {
	ts := c.now().UTC().Format(timestampLayout)
	parts := []string{c.baseURL, method + "Json", creds.DevID, Signature(creds.DevID, method, creds.AuthKey, ts)}
	if withSession {
		parts = append(parts, creds.SessionID)
	}
	parts = append(parts, ts)
	for _, arg := range args {
		parts = append(parts, url.PathEscape(arg))
	}
	return strings.Join(parts, "/")
}

// Ping returns the raw API ping reply
func (c *Client) Ping(ctx context.Context) (string, error) {
	body, err := c.web.GetBytes(ctx, web.Request{URL: c.baseURL + "/pingjson", Source: sourceLabel})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// CreateSession opens a new API session and returns its ID
func (c *Client) CreateSession(ctx context.Context, creds *entities.SmiteCredentials) (string, error) {
	body, err := c.web.GetBytes(ctx, web.Request{URL: c.methodURL(creds, "createsession", false), Source: sourceLabel})
	if err != nil {
		return "", err
	}

	var reply struct {
		RetMsg    string `json:"ret_msg"`
		SessionID string `json:"session_id"`
	}
	// Bad credentials produce a non-JSON body
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", errSessionRejected, err)
	}
	if reply.RetMsg != "Approved" || reply.SessionID == "" {
		return "", fmt.Errorf("%w: %s", errSessionRejected, reply.RetMsg)
	}
	return reply.SessionID, nil
}

// TestSession reports whether the stored session is still accepted
func (c *Client) TestSession(ctx context.Context, creds *entities.SmiteCredentials) (bool, error) {
	if creds.SessionID == "" {
		return false, nil
	}
	body, err := c.web.GetBytes(ctx, web.Request{URL: c.methodURL(creds, "testsession", true), Source: sourceLabel})
	if err != nil {
		return false, err
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte(`"This`)), nil
}

// GetPlayer returns the player's profile, or nil when hidden or unknown
func (c *Client) GetPlayer(ctx context.Context, creds *entities.SmiteCredentials, name string) (*Player, error) {
	var players []Player
	if err := c.web.GetJSON(ctx, web.Request{URL: c.methodURL(creds, "getplayer", true, name), Source: sourceLabel}, &players); err != nil {
		return nil, err
	}
	if len(players) == 0 || players[0].Name == "" {
		return nil, nil
	}
	return &players[0], nil
}

// GetPlayerStatus returns the player's live status
func (c *Client) GetPlayerStatus(ctx context.Context, creds *entities.SmiteCredentials, name string) (*PlayerStatus, error) {
	var statuses []PlayerStatus
	if err := c.web.GetJSON(ctx, web.Request{URL: c.methodURL(creds, "getplayerstatus", true, name), Source: sourceLabel}, &statuses); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	return &statuses[0], nil
}

// GetMatchPlayers returns everyone in a live match
func (c *Client) GetMatchPlayers(ctx context.Context, creds *entities.SmiteCredentials, matchID string) ([]MatchPlayer, error) {
	var players []MatchPlayer
	if err := c.web.GetJSON(ctx, web.Request{URL: c.methodURL(creds, "getmatchplayerdetails", true, matchID), Source: sourceLabel}, &players); err != nil {
		return nil, err
	}
	return players, nil
}

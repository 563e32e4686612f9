package smite

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"cogbot/domain/entities"
	"cogbot/infrastructure/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI answers by the method segment of the request URL
type fakeAPI struct {
	replies  map[string]string
	err      error
	requests []string
}

func (f *fakeAPI) reply(req web.Request) ([]byte, error) {
	f.requests = append(f.requests, req.URL)
	if f.err != nil {
		return nil, f.err
	}
	for method, body := range f.replies {
		if strings.Contains(req.URL, "/"+method) {
			return []byte(body), nil
		}
	}
	return nil, &web.StatusError{URL: req.URL, StatusCode: 404}
}

func (f *fakeAPI) GetBytes(_ context.Context, req web.Request) ([]byte, error) {
	return f.reply(req)
}

func (f *fakeAPI) GetJSON(_ context.Context, req web.Request, v any) error {
	body, err := f.reply(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func newTestClient(api *fakeAPI) *Client {
	c := NewClient(api)
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

var testCreds = &entities.SmiteCredentials{DevID: "1004", AuthKey: "ABCDEF", SessionID: "sess"}

func TestSignature(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "96c739b8b1e5052867e118f9e01faab3", Signature("1004", "getplayer", "ABCDEF", "20240102030405"))
}

func TestMethodURL(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeAPI{})

	assert.Equal(t,
		apiURL+"/getplayerJson/1004/96c739b8b1e5052867e118f9e01faab3/sess/20240102030405/Kunku%20lada",
		c.methodURL(testCreds, "getplayer", true, "Kunku lada"),
	)
	assert.Equal(t,
		apiURL+"/createsessionJson/1004/"+Signature("1004", "createsession", "ABCDEF", "20240102030405")+"/20240102030405",
		c.methodURL(testCreds, "createsession", false),
	)
}

func TestCreateSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "approved", body: `{"ret_msg":"Approved","session_id":"new-session"}`, want: "new-session"},
		{name: "rejected", body: `{"ret_msg":"Invalid Developer Id","session_id":""}`, wantErr: true},
		{name: "not json", body: `<html>error</html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(&fakeAPI{replies: map[string]string{"createsessionJson": tt.body}})
			got, err := c.CreateSession(context.Background(), testCreds)
			if tt.wantErr {
				assert.ErrorIs(t, err, errSessionRejected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTestSession(t *testing.T) {
	t.Parallel()

	valid := newTestClient(&fakeAPI{replies: map[string]string{"testsessionJson": `"This was a successful test"`}})
	ok, err := valid.TestSession(context.Background(), testCreds)
	require.NoError(t, err)
	assert.True(t, ok)

	invalid := newTestClient(&fakeAPI{replies: map[string]string{"testsessionJson": `"Invalid session id."`}})
	ok, err = invalid.TestSession(context.Background(), testCreds)
	require.NoError(t, err)
	assert.False(t, ok)

	api := &fakeAPI{}
	ok, err = newTestClient(api).TestSession(context.Background(), &entities.SmiteCredentials{DevID: "1", AuthKey: "k"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, api.requests, "no request without a session")

	_, err = newTestClient(&fakeAPI{err: errors.New("down")}).TestSession(context.Background(), testCreds)
	assert.Error(t, err)
}

func TestGetPlayer(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeAPI{replies: map[string]string{
		"getplayerJson": `[{"Name":"Kunkulada","Team_Name":"","Avatar_URL":"","Wins":10,"Losses":4,"Leaves":1,"MasteryLevel":7,
			"RankedConquest":{"Tier":12},"RankedJoust":{"Tier":0},"RankedDuel":{"Tier":26}}]`,
	}})

	player, err := c.GetPlayer(context.Background(), testCreds, "Kunkulada")
	require.NoError(t, err)
	require.NotNil(t, player)
	assert.Equal(t, 12, player.RankedConquest.Tier)

	hidden := newTestClient(&fakeAPI{replies: map[string]string{"getplayerJson": `[]`}})
	player, err = hidden.GetPlayer(context.Background(), testCreds, "Nobody")
	require.NoError(t, err)
	assert.Nil(t, player)
}

func TestGetPlayerStatus_DecodesMatchID(t *testing.T) {
	t.Parallel()

	c := newTestClient(&fakeAPI{replies: map[string]string{
		"getplayerstatusJson": `[{"status":3,"Match":795950194}]`,
	}})

	status, err := c.GetPlayerStatus(context.Background(), testCreds, "Kunkulada")
	require.NoError(t, err)
	assert.Equal(t, StatusInGame, status.Status)
	assert.Equal(t, ID("795950194"), status.Match)
}

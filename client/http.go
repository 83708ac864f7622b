package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/veselink1/quick-draw/domain"
)

// HTTPAPI talks to the room service over plain JSON/HTTP. It implements
// both RoomStore and RoomMutator. Every request carries the identity's
// bearer token and a bounded timeout so a stuck request can never block a
// poll loop indefinitely.
type HTTPAPI struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPAPI(baseURL, token string, requestTimeout time.Duration) *HTTPAPI {
	return &HTTPAPI{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (a *HTTPAPI) FetchRoom(ctx context.Context, roomID string, sinceVersion int64) (*domain.Room, error) {
	url := a.baseURL + "/v1/rooms/" + roomID
	if sinceVersion > 0 {
		url += "?since_version=" + strconv.FormatInt(sinceVersion, 10)
	}
	body, err := a.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	room := &domain.Room{}
	if err := json.Unmarshal(body, room); err != nil {
		return nil, fmt.Errorf("%w: decoding room: %w", domain.ErrTransient, err)
	}
	return room, nil
}

func (a *HTTPAPI) ReplaceRoomState(ctx context.Context, roomID string, state domain.RoomState, expectedVersion int64) error {
	payload := struct {
		State           domain.RoomState `json:"state"`
		ExpectedVersion int64            `json:"expected_version"`
	}{state, expectedVersion}
	_, err := a.do(ctx, http.MethodPut, a.baseURL+"/v1/rooms/"+roomID+"/state", payload)
	return err
}

func (a *HTTPAPI) ReplacePlayerState(ctx context.Context, roomID, playerID string, state domain.PlayerState) error {
	payload := struct {
		PlayerID string             `json:"player_id"`
		State    domain.PlayerState `json:"state"`
	}{playerID, state}
	_, err := a.do(ctx, http.MethodPut, a.baseURL+"/v1/rooms/"+roomID+"/player", payload)
	return err
}

func (a *HTTPAPI) ReplaceTurnPlayer(ctx context.Context, roomID, playerID string) error {
	payload := struct {
		TurnPlayerID string `json:"turn_player_id"`
	}{playerID}
	_, err := a.do(ctx, http.MethodPut, a.baseURL+"/v1/rooms/"+roomID+"/turn", payload)
	return err
}

func (a *HTTPAPI) FreezeRoom(ctx context.Context, roomID string) error {
	_, err := a.do(ctx, http.MethodPut, a.baseURL+"/v1/rooms/"+roomID+"/freeze", nil)
	return err
}

// CreateRoom makes a new room owned by the caller.
func (a *HTTPAPI) CreateRoom(ctx context.Context) (*domain.Room, error) {
	body, err := a.do(ctx, http.MethodPost, a.baseURL+"/v1/rooms", struct{}{})
	if err != nil {
		return nil, err
	}
	room := &domain.Room{}
	if err := json.Unmarshal(body, room); err != nil {
		return nil, fmt.Errorf("%w: decoding room: %w", domain.ErrTransient, err)
	}
	return room, nil
}

// JoinRoom adds the caller to a non-frozen room.
func (a *HTTPAPI) JoinRoom(ctx context.Context, roomID string) error {
	_, err := a.do(ctx, http.MethodPost, a.baseURL+"/v1/rooms/"+roomID+"/join", struct{}{})
	return err
}

// LeaveRoom removes the caller from the room; the owner leaving deletes it.
func (a *HTTPAPI) LeaveRoom(ctx context.Context, roomID string) error {
	_, err := a.do(ctx, http.MethodDelete, a.baseURL+"/v1/rooms/"+roomID, nil)
	return err
}

func (a *HTTPAPI) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotModified:
		return nil, domain.ErrUnchanged
	case res.StatusCode == http.StatusNotFound:
		return nil, domain.ErrRoomNotFound
	case res.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case res.StatusCode == http.StatusForbidden:
		return nil, domain.ErrRoomFrozen
	case res.StatusCode == http.StatusConflict:
		return nil, domain.ErrConflict
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return io.ReadAll(res.Body)
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrTransient, res.StatusCode)
	}
}

// Login exchanges a display name for an Identity with a bearer token.
// It is the only unauthenticated call.
func Login(ctx context.Context, httpClient *http.Client, baseURL, name string) (Identity, error) {
	raw, err := json.Marshal(struct {
		Name string `json:"name"`
	}{name})
	if err != nil {
		return Identity{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/login", bytes.NewReader(raw))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: login status %d", domain.ErrTransient, res.StatusCode)
	}

	var out struct {
		Token  string        `json:"token"`
		Player domain.Player `json:"player"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Identity{}, fmt.Errorf("%w: decoding login response: %w", domain.ErrTransient, err)
	}
	return Identity{PlayerID: out.Player.ID, Name: out.Player.Name, Token: out.Token}, nil
}

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/plan"
	"github.com/roomsmith/roomsmith/pkg/resolve"
)

// Bridge talks to the engine's remote-control HTTP endpoint:
//
//	POST   {base}/objects                object spawned from a placement
//	PUT    {base}/objects/{id}/transform object moved
//	DELETE {base}/objects/{id}           object destroyed
type Bridge struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewBridge creates a binding against the bridge at baseURL.
func NewBridge(baseURL string, logger *log.Logger) (*Bridge, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"invalid engine bridge URL %q", baseURL)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}, nil
}

type spawnRequest struct {
	ID           string             `json:"id"`
	Type         string             `json:"type"`
	Room         string             `json:"room"`
	Size         geometry.Vec3      `json:"size"`
	Transform    geometry.Transform `json:"transform"`
	MeshType     string             `json:"mesh_type,omitempty"`
	MaterialType string             `json:"material_type,omitempty"`
	Intensity    float32            `json:"intensity,omitempty"`
	Color        [3]float32         `json:"color,omitempty"`
}

// Apply executes the plan: removals first so freed space exists before
// moves and spawns land in it.
func (b *Bridge) Apply(ctx context.Context, p *plan.UpdatePlan) error {
	for _, id := range p.Remove {
		if err := b.do(ctx, http.MethodDelete, "/objects/"+url.PathEscape(id), nil, id); err != nil {
			return err
		}
		b.logger.Debug("removed object", "object", id)
	}
	for _, m := range p.Move {
		if err := b.do(ctx, http.MethodPut, "/objects/"+url.PathEscape(m.ID)+"/transform", m.To, m.ID); err != nil {
			return err
		}
		b.logger.Debug("moved object", "object", m.ID)
	}
	for _, c := range p.Create {
		if err := b.do(ctx, http.MethodPost, "/objects", spawnPayload(c), c.ID); err != nil {
			return err
		}
		b.logger.Debug("created object", "object", c.ID)
	}
	return nil
}

func spawnPayload(p resolve.Placement) spawnRequest {
	return spawnRequest{
		ID:           p.ID,
		Type:         p.Type,
		Room:         p.Room,
		Size:         p.Size,
		Transform:    p.Transform,
		MeshType:     p.MeshType,
		MaterialType: p.MaterialType,
		Intensity:    p.Intensity,
		Color:        p.Color,
	}
}

func (b *Bridge) do(ctx context.Context, method, path string, body any, objectID string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeEngineFailed, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeEngineFailed, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeEngineFailed,
			"engine unreachable for object %q", objectID)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeAssetNotFound,
			"engine has no asset for object %q", objectID)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.ErrCodeEngineFailed,
			"engine returned status %d for object %q: %s",
			resp.StatusCode, objectID, strings.TrimSpace(string(msg)))
	}
}

// Close does nothing; the bridge is stateless between calls.
func (b *Bridge) Close() error { return nil }

var _ Binding = (*Bridge)(nil)

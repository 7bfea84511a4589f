package podman

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/jellydator/ttlcache/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// APIVersion is the libpod API version podconsole speaks.
const APIVersion = "v4.0.0"

const (
	defaultTimeout    = 30 * time.Second
	defaultHistoryTTL = 10 * time.Minute
	inspectParallel   = 8
)

// Service talks to one Podman service over its unix socket.
type Service struct {
	owner   Owner
	socket  string
	http    *req.Client
	tracer  oteltrace.Tracer
	history *ttlcache.Cache[string, []HistoryRecord]
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	timeout    time.Duration
	historyTTL time.Duration
	userAgent  string
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *serviceOptions) { o.timeout = d }
}

// WithHistoryTTL sets how long image histories stay cached. Image ids are
// content addressed, so a cached history never goes stale, it only ages out.
func WithHistoryTTL(d time.Duration) Option {
	return func(o *serviceOptions) { o.historyTTL = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *serviceOptions) { o.userAgent = ua }
}

// NewService returns a Service for the Podman socket of the given owner.
// Call Close when done to stop the history cache janitor.
func NewService(owner Owner, socket string, opts ...Option) *Service {
	so := serviceOptions{
		timeout:    defaultTimeout,
		historyTTL: defaultHistoryTTL,
		userAgent:  "podconsole",
	}
	for _, opt := range opts {
		opt(&so)
	}
	c := req.C().
		SetUnixSocket(socket).
		SetBaseURL("http://d/" + APIVersion + "/libpod").
		SetTimeout(so.timeout).
		SetUserAgent(so.userAgent).
		SetCommonErrorResult(&APIError{})
	s := &Service{
		owner:   owner,
		socket:  socket,
		http:    c,
		tracer:  otel.Tracer("podconsole/podman"),
		history: ttlcache.New(ttlcache.WithTTL[string, []HistoryRecord](so.historyTTL)),
	}
	go s.history.Start()
	return s
}

// Owner returns the owner scope this service serves.
func (s *Service) Owner() Owner { return s.owner }

// Socket returns the unix socket path.
func (s *Service) Socket() string { return s.socket }

// URL returns the connection URL as understood by `podman --url`.
func (s *Service) URL() string { return "unix://" + s.socket }

// Close stops background work.
func (s *Service) Close() {
	s.history.Stop()
}

// Ping checks that the service answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", s.http.R(), http.MethodGet, "/_ping")
}

// RenameContainer renames the container id.
func (s *Service) RenameContainer(ctx context.Context, id string, opts RenameOptions) error {
	r := s.http.R().
		SetPathParam("id", id).
		SetQueryParam("name", opts.Name)
	return s.do(ctx, "container.rename", r, http.MethodPost, "/containers/{id}/rename")
}

// CreatePod creates a pod and returns its id.
func (s *Service) CreatePod(ctx context.Context, spec PodSpec) (string, error) {
	var out struct {
		ID string `json:"Id"`
	}
	r := s.http.R().
		SetBodyJsonMarshal(spec).
		SetSuccessResult(&out)
	if err := s.do(ctx, "pod.create", r, http.MethodPost, "/pods/create"); err != nil {
		return "", err
	}
	return out.ID, nil
}

// DeleteVolume removes the volume; force also removes containers using it.
func (s *Service) DeleteVolume(ctx context.Context, id string, force bool) error {
	r := s.http.R().
		SetPathParam("id", id).
		SetQueryParam("force", strconv.FormatBool(force))
	return s.do(ctx, "volume.delete", r, http.MethodDelete, "/volumes/{id}")
}

// UntagVolume removes the repo:tag reference from the volume.
func (s *Service) UntagVolume(ctx context.Context, id, repo, tag string) error {
	r := s.http.R().
		SetPathParam("id", id).
		SetQueryParam("repo", repo).
		SetQueryParam("tag", tag)
	return s.do(ctx, "volume.untag", r, http.MethodPost, "/volumes/{id}/untag")
}

// PruneVolumes removes all volumes not referenced by any container.
func (s *Service) PruneVolumes(ctx context.Context) ([]PruneReport, error) {
	var out []PruneReport
	r := s.http.R().SetSuccessResult(&out)
	if err := s.do(ctx, "volume.prune", r, http.MethodPost, "/volumes/prune"); err != nil {
		return nil, err
	}
	return out, nil
}

// volumeReport is the libpod volume listing entry. Volumes are addressed by
// name; Id is honoured when the service reports one.
type volumeReport struct {
	ID        string    `json:"Id"`
	Name      string    `json:"Name"`
	RepoTags  []string  `json:"RepoTags"`
	Size      int64     `json:"Size"`
	Created   time.Time `json:"Created"`
	CreatedAt time.Time `json:"CreatedAt"`
}

// ListVolumes lists all volumes of this scope.
func (s *Service) ListVolumes(ctx context.Context) ([]Volume, error) {
	var reports []volumeReport
	r := s.http.R().SetSuccessResult(&reports)
	if err := s.do(ctx, "volume.list", r, http.MethodGet, "/volumes/json"); err != nil {
		return nil, err
	}
	vols := make([]Volume, 0, len(reports))
	for _, rep := range reports {
		v := Volume{
			ID:       rep.ID,
			RepoTags: rep.RepoTags,
			Size:     rep.Size,
			Created:  rep.Created,
			IsSystem: s.owner.IsSystem(),
		}
		if v.ID == "" {
			v.ID = rep.Name
		}
		if v.Created.IsZero() {
			v.Created = rep.CreatedAt
		}
		vols = append(vols, v)
	}
	return vols, nil
}

// ListContainers lists all containers of this scope, including stopped ones,
// with their mounts filled in from inspect. Containers removed between the
// list and their inspect are left out of the result.
func (s *Service) ListContainers(ctx context.Context) ([]Container, error) {
	var ctrs []Container
	r := s.http.R().
		SetQueryParam("all", "true").
		SetSuccessResult(&ctrs)
	if err := s.do(ctx, "container.list", r, http.MethodGet, "/containers/json"); err != nil {
		return nil, err
	}
	gone := make([]bool, len(ctrs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(inspectParallel)
	for i := range ctrs {
		ctrs[i].IsSystem = s.owner.IsSystem()
		g.Go(func() error {
			ins, err := s.InspectContainer(gctx, ctrs[i].ID)
			if IsNotFound(err) {
				gone[i] = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("inspect %s: %w", ShortID(ctrs[i].ID), err)
			}
			ctrs[i].Mounts = ins.Mounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	live := ctrs[:0]
	for i, c := range ctrs {
		if !gone[i] {
			live = append(live, c)
		}
	}
	return live, nil
}

// InspectContainer returns the inspect document of one container.
func (s *Service) InspectContainer(ctx context.Context, id string) (ContainerInspect, error) {
	var out ContainerInspect
	r := s.http.R().
		SetPathParam("id", id).
		SetSuccessResult(&out)
	if err := s.do(ctx, "container.inspect", r, http.MethodGet, "/containers/{id}/json"); err != nil {
		return ContainerInspect{}, err
	}
	return out, nil
}

// ListPods lists all pods of this scope.
func (s *Service) ListPods(ctx context.Context) ([]Pod, error) {
	var pods []Pod
	r := s.http.R().SetSuccessResult(&pods)
	if err := s.do(ctx, "pod.list", r, http.MethodGet, "/pods/json"); err != nil {
		return nil, err
	}
	for i := range pods {
		pods[i].IsSystem = s.owner.IsSystem()
	}
	return pods, nil
}

// ImageHistory returns the layer history of image, newest first.
func (s *Service) ImageHistory(ctx context.Context, image string) ([]HistoryRecord, error) {
	if item := s.history.Get(image); item != nil {
		return item.Value(), nil
	}
	var recs []HistoryRecord
	r := s.http.R().
		SetPathParam("id", image).
		SetSuccessResult(&recs)
	if err := s.do(ctx, "image.history", r, http.MethodGet, "/images/{id}/history"); err != nil {
		return nil, err
	}
	s.history.Set(image, recs, ttlcache.DefaultTTL)
	return recs, nil
}

// do sends the request inside a span and turns every failure into an
// *APIError.
func (s *Service) do(ctx context.Context, op string, r *req.Request, method, path string) error {
	ctx, span := s.tracer.Start(ctx, "podman."+op,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("podman.owner", string(s.owner)),
			attribute.String("podman.socket", s.socket),
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		))
	defer span.End()

	resp, err := r.SetContext(ctx).Send(method, path)
	if resp != nil && resp.Response != nil && resp.IsErrorState() {
		// Error documents that fail to decode still carry the status.
		err = responseError(resp)
	}
	if err != nil {
		apiErr := AsAPIError(err)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Message)
		return apiErr
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.GetStatusCode()))
	return nil
}

// responseError extracts the libpod error document from a failed response.
func responseError(resp *req.Response) error {
	if apiErr, ok := resp.ErrorResult().(*APIError); ok && apiErr.Message != "" {
		if apiErr.Status == 0 {
			apiErr.Status = resp.GetStatusCode()
		}
		return apiErr
	}
	return &APIError{
		Message: http.StatusText(resp.GetStatusCode()),
		Reason:  strings.TrimSpace(resp.String()),
		Status:  resp.GetStatusCode(),
	}
}

// Package jobs runs the opening-edit state machine: annotate, bounded
// generate/validate attempts, composite, finalize.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cseifert512/Drafted/internal/annotate"
	"github.com/cseifert512/Drafted/internal/blend"
	"github.com/cseifert512/Drafted/internal/domain"
	"github.com/cseifert512/Drafted/internal/geometry"
	"github.com/cseifert512/Drafted/internal/infra"
	provider "github.com/cseifert512/Drafted/internal/providers/image"
	"github.com/cseifert512/Drafted/internal/storage"
	"github.com/cseifert512/Drafted/internal/validate"
)

// DefaultMaxRetries bounds content-quality retries per job. Only validation
// rejections consume this budget; a call-level generator failure is fatal on
// the spot.
const DefaultMaxRetries = 3

type Config struct {
	MaxRetries int
	PaddingPx  int
}

func DefaultConfig() Config {
	return Config{MaxRetries: DefaultMaxRetries, PaddingPx: annotate.DefaultPaddingPx}
}

// Service owns every opening-edit job from submission to its terminal state.
// Each submission runs in its own goroutine; jobs share nothing with each
// other and the store is the only thing status readers touch.
type Service struct {
	ctx       context.Context
	store     domain.JobStore
	generator provider.Generator
	validator *validate.Validator
	logger    infra.Logger
	cfg       Config

	// artifacts is optional; when set, intermediate images are dumped
	// there for offline inspection.
	artifacts *storage.ArtifactStore

	wg sync.WaitGroup
}

// WithArtifacts enables artifact dumping for all subsequent jobs.
func (s *Service) WithArtifacts(store *storage.ArtifactStore) *Service {
	s.artifacts = store
	return s
}

func NewService(ctx context.Context, store domain.JobStore, gen provider.Generator, v *validate.Validator, logger infra.Logger, cfg Config) *Service {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.PaddingPx <= 0 {
		cfg.PaddingPx = annotate.DefaultPaddingPx
	}
	return &Service{
		ctx:       ctx,
		store:     store,
		generator: gen,
		validator: v,
		logger:    logger,
		cfg:       cfg,
	}
}

// Submit validates geometry, precomputes the edit bbox, persists the job in
// Pending and spawns its run. It returns the job id without waiting; callers
// poll Status. The only synchronous failures are malformed input.
func (s *Service) Submit(ctx context.Context, planID string, op domain.Opening, basePNG []byte, vec domain.VectorDescription) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	baseImg, err := png.Decode(bytes.NewReader(basePNG))
	if err != nil {
		return "", fmt.Errorf("%w: base image is not a decodable PNG: %v", domain.ErrGeometry, err)
	}
	bounds := baseImg.Bounds()
	t, err := geometry.NewTransform(vec.ViewBox, bounds.Dx(), bounds.Dy())
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeometry, err)
	}

	frame := geometry.WallGeometry(op.Wall.Start, op.Wall.End, op.Position)
	bbox := geometry.OpeningBBox(frame, op.WidthVec(), geometry.WallThicknessVec, t, s.cfg.PaddingPx)

	now := time.Now().UTC()
	job := &domain.Job{
		ID:        uuid.NewString(),
		PlanID:    planID,
		Opening:   op,
		BasePNG:   append([]byte(nil), basePNG...),
		Vector:    vec,
		BBox:      bbox,
		State:     domain.StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return "", err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job, baseImg, t)
	}()
	return job.ID, nil
}

// Status returns a consistent snapshot of the job. Unknown id yields
// domain.ErrNotFound.
func (s *Service) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.store.GetByID(ctx, jobID)
}

// Remove deletes the job bookkeeping for an opening. It never rolls back or
// re-renders anything.
func (s *Service) Remove(ctx context.Context, planID, openingID string) error {
	return s.store.DeleteByOpening(ctx, planID, openingID)
}

// Drain waits for all in-flight jobs to reach a terminal state.
func (s *Service) Drain() {
	s.wg.Wait()
}

// run executes one job sequentially to completion. The generator call is the
// only blocking point; everything else is synchronous CPU work.
func (s *Service) run(job *domain.Job, baseImg image.Image, t geometry.Transform) {
	log := s.logger.With().Str("job_id", job.ID).Str("plan_id", job.PlanID).Str("opening", string(job.Opening.Kind)).Logger()

	s.transition(job, domain.StateRendering)

	annotated, _, err := annotate.Annotate(baseImg, job.Opening, t, s.cfg.PaddingPx)
	if err != nil {
		s.fail(job, err)
		return
	}
	annotatedPNG, err := encodePNG(annotated)
	if err != nil {
		s.fail(job, err)
		return
	}
	instruction := provider.BuildEditInstruction(job.Opening)
	s.dump(log, func() (string, error) { return s.artifacts.SaveAnnotated(job.ID, annotatedPNG) })

	var accepted *image.RGBA
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		res, err := s.generator.Generate(s.ctx, provider.EditRequest{
			AnnotatedPNG: annotatedPNG,
			Instruction:  instruction,
			RequestID:    fmt.Sprintf("%s-%d", job.ID, attempt),
		})
		if err != nil {
			// Call-level failure: fatal, never consumes retry budget.
			s.fail(job, fmt.Errorf("%w: %v", domain.ErrGenerationCall, err))
			return
		}
		candidate, err := png.Decode(bytes.NewReader(res.EditedPNG))
		if err != nil {
			s.fail(job, fmt.Errorf("%w: generator returned undecodable image: %v", domain.ErrGenerationCall, err))
			return
		}

		verdict := s.validator.Validate(baseImg, candidate, job.BBox)
		att := domain.Attempt{Index: attempt, Verdict: verdict, At: time.Now().UTC()}
		if verdict.Pass {
			job.Attempts = append(job.Attempts, att)
			accepted = blend.Resize(candidate, baseImg.Bounds().Dx(), baseImg.Bounds().Dy())
			log.Info().Int("attempt", attempt).Float64("elapsed_s", res.ElapsedSeconds).Msg("generation accepted")
			break
		}
		att.RejectedPNG = res.EditedPNG
		job.Attempts = append(job.Attempts, att)
		s.persist(job)
		s.dump(log, func() (string, error) { return s.artifacts.SaveRejected(job.ID, attempt, res.EditedPNG) })
		log.Warn().Int("attempt", attempt).Str("check", verdict.FailedCheck).Msg(verdict.Reason)
	}

	if accepted == nil {
		last := job.Attempts[len(job.Attempts)-1]
		s.fail(job, fmt.Errorf("all %d attempts rejected: %s", s.cfg.MaxRetries, last.Verdict.Reason))
		return
	}

	s.transition(job, domain.StateBlending)
	final := s.compose(job, baseImg, accepted)
	finalPNG, err := encodePNG(final)
	if err != nil {
		s.fail(job, err)
		return
	}

	job.State = domain.StateComplete
	job.FinalPNG = finalPNG
	job.ErrorMessage = ""
	s.persist(job)
	s.dump(log, func() (string, error) { return s.artifacts.SaveFinal(job.ID, finalPNG) })
	log.Info().Int("attempts", len(job.Attempts)).Msg("opening edit complete")
}

// compose applies the validated candidate. The exact bbox replacement is the
// default because it provably cannot drift outside the edit region; the
// feathered room blend only runs when the bbox collapsed to nothing.
func (s *Service) compose(job *domain.Job, baseImg image.Image, candidate *image.RGBA) *image.RGBA {
	if job.BBox.Area() > 0 {
		return blend.BBoxComposite(baseImg, candidate, job.BBox)
	}

	frame := geometry.WallGeometry(job.Opening.Wall.Start, job.Opening.Wall.End, job.Opening.Position)
	t := geometry.Transform{VB: job.Vector.ViewBox, PixelW: baseImg.Bounds().Dx(), PixelH: baseImg.Bounds().Dy()}
	if room, ok := geometry.ContainingRoom(frame.Center, job.Vector.Rooms); ok {
		pts := make([]image.Point, len(room.Points))
		for i, p := range room.Points {
			px := t.ToPixel(p)
			pts[i] = image.Point{X: int(px.X), Y: int(px.Y)}
		}
		return blend.RoomBlend(baseImg, candidate, pts, job.Opening.Kind.Params())
	}
	return candidate
}

func (s *Service) dump(log infra.Logger, save func() (string, error)) {
	if s.artifacts == nil {
		return
	}
	if _, err := save(); err != nil {
		log.Warn().Err(err).Msg("artifact dump failed")
	}
}

func (s *Service) transition(job *domain.Job, state domain.JobState) {
	job.State = state
	s.persist(job)
}

func (s *Service) fail(job *domain.Job, err error) {
	job.State = domain.StateFailed
	job.FinalPNG = nil
	job.ErrorMessage = err.Error()
	s.persist(job)
	s.logger.Error().Str("job_id", job.ID).Err(err).Msg("opening edit failed")
}

// persist writes the job with a fresh context so terminal states still land
// during shutdown, after s.ctx is already canceled.
func (s *Service) persist(job *domain.Job) {
	job.UpdatedAt = time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.Update(ctx, job); err != nil {
		s.logger.Error().Str("job_id", job.ID).Err(err).Msg("job store update failed")
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

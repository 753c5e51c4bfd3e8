package note

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nivora/nivora/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyNote = errors.New("note must have a title or content")

type Service interface {
	List(ctx context.Context) ([]Note, error)
	Create(ctx context.Context, note Note) (Note, error)
	Update(ctx context.Context, note Note) (Note, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Note, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, note Note) (Note, error) {
	note.Title = strings.TrimSpace(note.Title)
	if note.Title == "" && strings.TrimSpace(note.Content) == "" {
		return Note{}, ErrEmptyNote
	}
	now := s.clock.Now()
	note.Id = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	if err := s.repo.Store(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

func (s *ServiceImpl) Update(ctx context.Context, note Note) (Note, error) {
	note.Title = strings.TrimSpace(note.Title)
	if note.Title == "" && strings.TrimSpace(note.Content) == "" {
		return Note{}, ErrEmptyNote
	}
	existing, err := s.repo.Get(ctx, note.Id)
	if err != nil {
		return Note{}, err
	}
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = s.clock.Now()
	updated, err := s.repo.Update(ctx, note)
	if err != nil {
		return Note{}, err
	}
	if !updated {
		return Note{}, ErrNoteNotFound
	}
	return note, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("note not deleted, probably because it does not exist (%s)", id)
		return ErrNoteNotFound
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Artemis21/polybots/models"
)

type tagService struct {
	uowFactory UnitOfWorkFactory
}

// NewTagService creates a new tag service
func NewTagService(uowFactory UnitOfWorkFactory) TagService {
	return &tagService{
		uowFactory: uowFactory,
	}
}

// Create makes a new tag under one or more names
func (s *tagService) Create(ctx context.Context, names []string, content string) (*models.Tag, error) {
	var cleaned []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return nil, NewRuleError(KindInvalidInput, "tags need at least one name")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewRuleError(KindInvalidInput, "tags need some content")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for _, name := range cleaned {
		existing, err := uow.TagRepository().GetByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check tag name: %w", err)
		}
		if existing != nil {
			return nil, NewRuleError(KindDuplicateName, "a tag named %q already exists", name)
		}
	}

	tag := &models.Tag{Names: cleaned, Content: content}
	if err := uow.TagRepository().Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("tag", tag.String()).Info("Tag created")
	return tag, nil
}

// Show retrieves a tag by any of its names and counts the use
func (s *tagService) Show(ctx context.Context, name string) (*models.Tag, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tag, err := uow.TagRepository().GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	if tag == nil {
		return nil, NewRuleError(KindNotFound, "no tag named %q", name)
	}

	if err := uow.TagRepository().IncrementUses(ctx, tag.ID); err != nil {
		return nil, fmt.Errorf("failed to count tag use: %w", err)
	}
	tag.Uses++

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tag, nil
}

// Edit replaces a tag's content
func (s *tagService) Edit(ctx context.Context, name string, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return NewRuleError(KindInvalidInput, "tags need some content")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tag, err := uow.TagRepository().GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get tag: %w", err)
	}
	if tag == nil {
		return NewRuleError(KindNotFound, "no tag named %q", name)
	}

	tag.Content = content
	if err := uow.TagRepository().Update(ctx, tag); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a tag by any of its names
func (s *tagService) Delete(ctx context.Context, name string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tag, err := uow.TagRepository().GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get tag: %w", err)
	}
	if tag == nil {
		return NewRuleError(KindNotFound, "no tag named %q", name)
	}

	if err := uow.TagRepository().Delete(ctx, tag.ID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("tag", tag.String()).Info("Tag deleted")
	return nil
}

// List returns all tags
func (s *tagService) List(ctx context.Context) ([]*models.Tag, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tags, err := uow.TagRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	return tags, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Artemis21/polybots/models"
)

type modifierService struct {
	uowFactory UnitOfWorkFactory
}

// NewModifierService creates a new modifier service
func NewModifierService(uowFactory UnitOfWorkFactory) ModifierService {
	return &modifierService{
		uowFactory: uowFactory,
	}
}

// Add creates a new modifier
func (s *modifierService) Add(ctx context.Context, name, description string, turns int) (*models.Modifier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewRuleError(KindInvalidInput, "modifiers need a name")
	}
	if turns < 0 {
		return nil, NewRuleError(KindInvalidInput, "turns cannot be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	modifier := &models.Modifier{
		Name:        name,
		Description: strings.TrimSpace(description),
		Turns:       turns,
	}
	if err := uow.ModifierRepository().Create(ctx, modifier); err != nil {
		return nil, fmt.Errorf("failed to create modifier: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return modifier, nil
}

// Edit updates a modifier's fields
func (s *modifierService) Edit(ctx context.Context, id int64, name, description string, turns int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewRuleError(KindInvalidInput, "modifiers need a name")
	}
	if turns < 0 {
		return NewRuleError(KindInvalidInput, "turns cannot be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	modifier, err := uow.ModifierRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get modifier: %w", err)
	}
	if modifier == nil {
		return NewRuleError(KindNotFound, "modifier %d not found", id)
	}

	modifier.Name = name
	modifier.Description = strings.TrimSpace(description)
	modifier.Turns = turns
	if err := uow.ModifierRepository().Update(ctx, modifier); err != nil {
		return fmt.Errorf("failed to update modifier: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Remove deletes a modifier
func (s *modifierService) Remove(ctx context.Context, id int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	modifier, err := uow.ModifierRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get modifier: %w", err)
	}
	if modifier == nil {
		return NewRuleError(KindNotFound, "modifier %d not found", id)
	}

	if err := uow.ModifierRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete modifier: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns all modifiers
func (s *modifierService) List(ctx context.Context) ([]*models.Modifier, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	modifiers, err := uow.ModifierRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get modifiers: %w", err)
	}
	return modifiers, nil
}

// Roll picks one modifier at random
func (s *modifierService) Roll(ctx context.Context) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pool, err := uow.ModifierRepository().GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get modifiers: %w", err)
	}
	if len(pool) == 0 {
		return "", NewRuleError(KindNotFound, "no modifiers have been added yet")
	}

	picked := models.PickModifiers(pool, 1, nil)
	return picked[0], nil
}

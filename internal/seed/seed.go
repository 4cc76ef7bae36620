// Package seed carga el contenido de soporte y la cuenta demo.
// Es re-ejecutable: artículos por upsert de slug, recursos por reemplazo
// completo, cuenta demo solo si no existe.
package seed

import (
	"context"
	"fmt"

	"buddymatch/internal/domain/accounts"
	"buddymatch/internal/domain/support"
	"buddymatch/internal/platform/logger"
	"buddymatch/internal/platform/patch"

	"github.com/google/uuid"
)

const (
	DemoEmail    = "demo@buddymatch.example"
	demoPassword = "demo1234"
)

func Run(ctx context.Context, log logger.Logger, supportRepo support.Repository, accountsSvc *accounts.Service) error {
	for _, a := range articles {
		a.ID = uuid.NewString() // el repo conserva el ID existente al actualizar
		if err := supportRepo.UpsertArticle(ctx, a); err != nil {
			return fmt.Errorf("seed article %s: %w", a.Slug, err)
		}
	}

	list := make([]support.Resource, 0, len(resources))
	for _, r := range resources {
		r.ID = uuid.NewString()
		list = append(list, r)
	}
	if err := supportRepo.ReplaceResources(ctx, list); err != nil {
		return fmt.Errorf("seed resources: %w", err)
	}

	if err := seedDemoAccount(ctx, accountsSvc); err != nil {
		return err
	}

	log.Info("seed complete", map[string]any{
		"articles":  len(articles),
		"resources": len(resources),
	})
	return nil
}

func seedDemoAccount(ctx context.Context, svc *accounts.Service) error {
	a, err := svc.Register(ctx, accounts.RegisterInput{
		Email:        DemoEmail,
		Password:     demoPassword,
		Name:         "Demo User",
		City:         "Portland",
		Experience:   "Intermediate",
		Availability: "Weekend mornings",
	})
	if err != nil {
		if err == accounts.ErrEmailTaken {
			return nil // ya sembrada
		}
		return fmt.Errorf("seed demo account: %w", err)
	}

	if _, err := svc.UpdateProfile(ctx, a.ID, accounts.UpdateProfileInput{
		Lat: patch.Set(45.5152),
		Lng: patch.Set(-122.6784),
	}); err != nil {
		return fmt.Errorf("seed demo location: %w", err)
	}
	if _, err := svc.SafetyPledge(ctx, a.ID); err != nil {
		return fmt.Errorf("seed demo pledge: %w", err)
	}
	return nil
}

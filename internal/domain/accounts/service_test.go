package accounts_test

import (
	"context"
	"errors"
	"testing"

	"buddymatch/internal/adapters/storage/memory"
	"buddymatch/internal/domain/accounts"
	"buddymatch/internal/platform/logger"
	"buddymatch/internal/platform/patch"
)

type fakeGeocoder struct {
	lat, lng float64
	err      error
	calls    int
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	g.calls++
	return g.lat, g.lng, g.err
}

func newService(gc *fakeGeocoder) *accounts.Service {
	log := logger.New(logger.Options{Level: logger.Error})
	if gc == nil {
		return accounts.NewService(memory.NewAccountRepo(), nil, log)
	}
	return accounts.NewService(memory.NewAccountRepo(), gc, log)
}

func TestRegister_Validation(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, accounts.RegisterInput{Password: "x"}); !errors.Is(err, accounts.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without email, got %v", err)
	}
	if _, err := svc.Register(ctx, accounts.RegisterInput{Email: "a@b.com"}); !errors.Is(err, accounts.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without password, got %v", err)
	}
	if _, err := svc.Register(ctx, accounts.RegisterInput{Email: "   ", Password: "x"}); !errors.Is(err, accounts.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank email, got %v", err)
	}
}

func TestRegister_NormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	a, err := svc.Register(ctx, accounts.RegisterInput{Email: "  Ana@Example.COM ", Password: "secret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if a.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", a.Email)
	}
	if a.PasswordHash == "secret" || a.PasswordHash == "" {
		t.Fatalf("password must be hashed")
	}

	// el duplicado se detecta sobre la forma normalizada
	if _, err := svc.Register(ctx, accounts.RegisterInput{Email: "ANA@example.com", Password: "other"}); !errors.Is(err, accounts.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, accounts.RegisterInput{Email: "a@b.com", Password: "secret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, "a@b.com", "wrong"); !errors.Is(err, accounts.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// usuario inexistente devuelve el mismo error que password incorrecta
	if _, err := svc.Login(ctx, "nobody@b.com", "secret"); !errors.Is(err, accounts.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUpdateProfile_GeocodesCity(t *testing.T) {
	gc := &fakeGeocoder{lat: 45.5152, lng: -122.6784}
	svc := newService(gc)
	ctx := context.Background()

	a, err := svc.Register(ctx, accounts.RegisterInput{Email: "a@b.com", Password: "x"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// city sin lat/lng => geocoding
	out, err := svc.UpdateProfile(ctx, a.ID, accounts.UpdateProfileInput{
		City: patch.Set("Portland"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gc.calls != 1 || out.Lat == nil || *out.Lat != 45.5152 {
		t.Fatalf("expected geocoded coords, calls=%d lat=%v", gc.calls, out.Lat)
	}

	// city junto con lat/lng explícitos => el geocoder no pisa nada
	out, err = svc.UpdateProfile(ctx, a.ID, accounts.UpdateProfileInput{
		City: patch.Set("Seattle"),
		Lat:  patch.Set(47.6),
		Lng:  patch.Set(-122.3),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gc.calls != 1 || *out.Lat != 47.6 {
		t.Fatalf("geocoder should not override explicit coords, calls=%d lat=%v", gc.calls, *out.Lat)
	}
}

func TestUpdateProfile_GeocoderFailureIsNotFatal(t *testing.T) {
	gc := &fakeGeocoder{err: errors.New("boom")}
	svc := newService(gc)
	ctx := context.Background()

	a, _ := svc.Register(ctx, accounts.RegisterInput{Email: "a@b.com", Password: "x"})
	out, err := svc.UpdateProfile(ctx, a.ID, accounts.UpdateProfileInput{City: patch.Set("Portland")})
	if err != nil {
		t.Fatalf("geocoder failure must not fail the patch: %v", err)
	}
	if out.City == nil || *out.City != "Portland" || out.Lat != nil {
		t.Fatalf("expected city set and coords empty, got city=%v lat=%v", out.City, out.Lat)
	}
}

func TestUpdateProfile_NullClearsFields(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	a, _ := svc.Register(ctx, accounts.RegisterInput{Email: "a@b.com", Password: "x", Name: "Ana", City: "Lima"})
	out, err := svc.UpdateProfile(ctx, a.ID, accounts.UpdateProfileInput{
		Name: patch.Clear[string](),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Name != nil {
		t.Fatalf("expected name cleared, got %v", *out.Name)
	}
	if out.City == nil || *out.City != "Lima" {
		t.Fatalf("untouched field must stay, got %v", out.City)
	}
}

func TestNearby(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	coord := func(v float64) patch.Field[float64] { return patch.Set(v) }

	viewer, _ := svc.Register(ctx, accounts.RegisterInput{Email: "v@b.com", Password: "x"})
	near, _ := svc.Register(ctx, accounts.RegisterInput{Email: "n@b.com", Password: "x"})
	far, _ := svc.Register(ctx, accounts.RegisterInput{Email: "f@b.com", Password: "x"})
	svc.Register(ctx, accounts.RegisterInput{Email: "nowhere@b.com", Password: "x"}) // sin coords

	svc.UpdateProfile(ctx, viewer.ID, accounts.UpdateProfileInput{Lat: coord(45.5152), Lng: coord(-122.6784)})
	svc.UpdateProfile(ctx, near.ID, accounts.UpdateProfileInput{Lat: coord(45.52), Lng: coord(-122.68)})
	svc.UpdateProfile(ctx, far.ID, accounts.UpdateProfileInput{Lat: coord(46.2), Lng: coord(-122.68)})

	// fallback a las coordenadas guardadas del viewer
	list, err := svc.Nearby(ctx, viewer.ID, nil, nil, 50)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(list) != 1 || list[0].ID != near.ID {
		t.Fatalf("expected only near user, got %d results", len(list))
	}

	// con radio grande entra el lejano; el viewer y el sin coords nunca
	list, err = svc.Nearby(ctx, viewer.ID, nil, nil, 500)
	if err != nil {
		t.Fatalf("nearby wide: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected near+far, got %d results", len(list))
	}
	for _, a := range list {
		if a.ID == viewer.ID {
			t.Fatalf("viewer must not appear in results")
		}
	}

	// viewer sin ubicación y sin referencia => ErrLocationRequired
	blind, _ := svc.Register(ctx, accounts.RegisterInput{Email: "blind@b.com", Password: "x"})
	if _, err := svc.Nearby(ctx, blind.ID, nil, nil, 50); !errors.Is(err, accounts.ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
}

func TestBefriend(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	a, _ := svc.Register(ctx, accounts.RegisterInput{Email: "a@b.com", Password: "x"})
	b, _ := svc.Register(ctx, accounts.RegisterInput{Email: "b@b.com", Password: "x"})

	if err := svc.Befriend(ctx, a.ID, a.ID); !errors.Is(err, accounts.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self friend, got %v", err)
	}
	if err := svc.Befriend(ctx, a.ID, "ghost"); !errors.Is(err, accounts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown target, got %v", err)
	}

	// idempotente y simétrico
	for i := 0; i < 2; i++ {
		if err := svc.Befriend(ctx, a.ID, b.ID); err != nil {
			t.Fatalf("befriend: %v", err)
		}
	}
	ok, err := svc.AreFriends(ctx, b.ID, a.ID)
	if err != nil || !ok {
		t.Fatalf("expected symmetric friendship, ok=%v err=%v", ok, err)
	}

	if err := svc.Unfriend(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("unfriend: %v", err)
	}
	ok, _ = svc.AreFriends(ctx, a.ID, b.ID)
	if ok {
		t.Fatalf("friendship should be gone")
	}
}

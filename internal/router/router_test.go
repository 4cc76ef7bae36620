package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buddymatch/internal/adapters/auth/jwtauth"
	"buddymatch/internal/platform/logger"
	"buddymatch/internal/router"
	"buddymatch/internal/seed"
)

func newTestApp(t *testing.T) (*httptest.Server, *router.App) {
	t.Helper()

	codec := jwtauth.New("test-secret", time.Hour)
	app := router.New(router.Options{
		Verifier: codec,
		Issuer:   codec,
		TokenTTL: time.Hour,
		Log:      logger.New(logger.Options{Level: logger.Error}),
	})
	ts := httptest.NewServer(app.Handler)
	t.Cleanup(ts.Close)
	return ts, app
}

func TestHTTP_AuthFlow(t *testing.T) {
	ts, _ := newTestApp(t)

	// register => 201 con token en body y cookie httpOnly
	st, body, res := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
		"email":    "ana@example.com",
		"password": "secret123",
		"name":     "Ana",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}
	var session struct {
		User  struct{ ID string }
		Token string
	}
	if err := json.Unmarshal(body, &session); err != nil || session.Token == "" || session.User.ID == "" {
		t.Fatalf("register: bad session body=%s", string(body))
	}
	cookie := findCookie(res, "token")
	if cookie == nil || !cookie.HttpOnly || cookie.Value != session.Token {
		t.Fatalf("register: missing httpOnly token cookie")
	}

	// email duplicado => 400
	st, body, _ = doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
		"email":    "Ana@Example.com  ",
		"password": "whatever",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 duplicate email, got %d body=%s", st, string(body))
	}
	if msg := errorMsg(body); msg != "Email already registered" {
		t.Fatalf("duplicate email: unexpected message %q", msg)
	}

	// sin password => 400
	st, _, _ = doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{"email": "x@example.com"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 missing password, got %d", st)
	}

	// login con password incorrecta => 401
	st, _, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad password, got %d", st)
	}

	// login ok => 200 y el email queda normalizado
	st, body, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
		"email":    "  ANA@example.com",
		"password": "secret123",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	// /auth/me con Bearer
	st, body, _ = doReq(t, ts.URL, "GET", "/api/auth/me", session.Token, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 me with bearer, got %d body=%s", st, string(body))
	}

	// /auth/me con cookie
	req, _ := http.NewRequest("GET", ts.URL+"/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: session.Token})
	cres, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me with cookie: %v", err)
	}
	cres.Body.Close()
	if cres.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 me with cookie, got %d", cres.StatusCode)
	}

	// sin credencial => 401
	st, _, _ = doReq(t, ts.URL, "GET", "/api/auth/me", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 me without auth, got %d", st)
	}

	// logout limpia la cookie
	_, _, res = doReq(t, ts.URL, "POST", "/api/auth/logout", session.Token, nil)
	if c := findCookie(res, "token"); c == nil || c.MaxAge != -1 {
		t.Fatalf("logout: expected expired token cookie")
	}
}

func TestHTTP_ProfilePatchAndPledge(t *testing.T) {
	ts, _ := newTestApp(t)
	token, _ := registerUser(t, ts.URL, "bruno@example.com")

	// PATCH setea campos
	st, body, _ := doReq(t, ts.URL, "PATCH", "/api/users/me", token, map[string]any{
		"city": "Portland",
		"lat":  45.5152,
		"lng":  -122.6784,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
	}
	var profile struct {
		City *string
		Lat  *float64
		Lng  *float64
	}
	_ = json.Unmarshal(body, &profile)
	if profile.City == nil || *profile.City != "Portland" || profile.Lat == nil {
		t.Fatalf("patch: fields not applied body=%s", string(body))
	}

	// key ausente no toca, null limpia
	st, body, _ = doReq(t, ts.URL, "PATCH", "/api/users/me", token, map[string]any{
		"lat": nil,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 null patch, got %d", st)
	}
	_ = json.Unmarshal(body, &profile)
	if profile.Lat != nil {
		t.Fatalf("patch null: lat should be cleared body=%s", string(body))
	}
	if profile.City == nil || *profile.City != "Portland" {
		t.Fatalf("patch null: city should be untouched body=%s", string(body))
	}

	// safety pledge estampa fecha
	st, body, _ = doReq(t, ts.URL, "POST", "/api/users/me/safety-pledge", token, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 pledge, got %d body=%s", st, string(body))
	}
	var pledge struct {
		SafetyPledgedAt *time.Time
	}
	_ = json.Unmarshal(body, &pledge)
	if pledge.SafetyPledgedAt == nil {
		t.Fatalf("pledge: missing timestamp body=%s", string(body))
	}
}

func TestHTTP_NearbyUsers(t *testing.T) {
	ts, _ := newTestApp(t)

	tokenA, _ := registerUser(t, ts.URL, "a@example.com")
	tokenB, idB := registerUser(t, ts.URL, "b@example.com")
	tokenC, idC := registerUser(t, ts.URL, "c@example.com")
	registerUser(t, ts.URL, "d@example.com") // sin coordenadas, nunca aparece

	setLocation(t, ts.URL, tokenA, 45.5152, -122.6784)
	setLocation(t, ts.URL, tokenB, 45.52, -122.68) // ~500m
	setLocation(t, ts.URL, tokenC, 46.2, -122.68)  // ~76km al norte

	// radio default 50km: B entra, C queda afuera
	st, body, _ := doReq(t, ts.URL, "GET", "/api/users/nearby", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 nearby, got %d body=%s", st, string(body))
	}
	ids := idsOf(t, body)
	if !ids[idB] || ids[idC] {
		t.Fatalf("nearby default: expected only B, got %v", ids)
	}

	// radio grande incluye a C
	st, body, _ = doReq(t, ts.URL, "GET", "/api/users/nearby?radiusKm=500", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 nearby wide, got %d", st)
	}
	ids = idsOf(t, body)
	if !ids[idB] || !ids[idC] {
		t.Fatalf("nearby wide: expected B and C, got %v", ids)
	}

	// radio no numérico cae al default
	st, body, _ = doReq(t, ts.URL, "GET", "/api/users/nearby?radiusKm=abc", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 nearby bad radius, got %d", st)
	}
	ids = idsOf(t, body)
	if !ids[idB] || ids[idC] {
		t.Fatalf("nearby bad radius: expected default behavior, got %v", ids)
	}

	// caller sin ubicación y sin query => 400
	tokenE, _ := registerUser(t, ts.URL, "e@example.com")
	st, _, _ = doReq(t, ts.URL, "GET", "/api/users/nearby", tokenE, nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 nearby without location, got %d", st)
	}

	// pero con lat/lng en query sí funciona
	st, _, _ = doReq(t, ts.URL, "GET", "/api/users/nearby?lat=45.5152&lng=-122.6784", tokenE, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 nearby with query coords, got %d", st)
	}
}

func TestHTTP_DogsCRUD(t *testing.T) {
	ts, _ := newTestApp(t)
	tokenA, _ := registerUser(t, ts.URL, "owner@example.com")
	tokenB, _ := registerUser(t, ts.URL, "other@example.com")

	// sin size => 400
	st, body, _ := doReq(t, ts.URL, "POST", "/api/dogs", tokenA, map[string]any{"name": "Luna"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 dog without size, got %d body=%s", st, string(body))
	}

	st, body, _ = doReq(t, ts.URL, "POST", "/api/dogs", tokenA, map[string]any{
		"name":           "Luna",
		"size":           "medium",
		"reactivityTags": "leash-reactive",
		"triggers":       "bikes, skateboards",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}
	var dog struct{ ID string }
	_ = json.Unmarshal(body, &dog)

	// listado propio
	st, body, _ = doReq(t, ts.URL, "GET", "/api/dogs", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list dogs, got %d", st)
	}
	var list []struct{ Name string }
	_ = json.Unmarshal(body, &list)
	if len(list) != 1 || list[0].Name != "Luna" {
		t.Fatalf("list dogs: unexpected body=%s", string(body))
	}

	// PATCH parcial: null limpia triggers, el resto queda
	st, body, _ = doReq(t, ts.URL, "PATCH", "/api/dogs/"+dog.ID, tokenA, map[string]any{
		"triggers": nil,
		"age":      "3 years",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 patch dog, got %d body=%s", st, string(body))
	}
	var patched struct {
		Age            *string
		Triggers       *string
		ReactivityTags *string
	}
	_ = json.Unmarshal(body, &patched)
	if patched.Triggers != nil || patched.Age == nil || patched.ReactivityTags == nil {
		t.Fatalf("patch dog: unexpected fields body=%s", string(body))
	}

	// otro usuario no ve ni toca el perro ajeno
	st, _, _ = doReq(t, ts.URL, "PATCH", "/api/dogs/"+dog.ID, tokenB, map[string]any{"name": "Hacked"})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 cross-owner patch, got %d", st)
	}
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/dogs/"+dog.ID, tokenB, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 cross-owner delete, got %d", st)
	}

	// delete propio
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/dogs/"+dog.ID, tokenA, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete dog, got %d", st)
	}
}

func TestHTTP_PostsFeedAndRSVP(t *testing.T) {
	ts, _ := newTestApp(t)
	tokenA, _ := registerUser(t, ts.URL, "pa@example.com")
	tokenB, idB := registerUser(t, ts.URL, "pb@example.com")

	near := createPost(t, ts.URL, tokenA, map[string]any{
		"title":    "Parallel walk at Laurelhurst",
		"body":     "Calm dogs only, keeping distance",
		"location": "Laurelhurst Park",
		"lat":      45.52,
		"lng":      -122.68,
		"meetupAt": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	far := createPost(t, ts.URL, tokenB, map[string]any{
		"title": "Quiet trail meetup",
		"body":  "North of the city",
		"lat":   48.0,
		"lng":   -122.68,
	})
	nowhere := createPost(t, ts.URL, tokenB, map[string]any{
		"title": "Online support chat",
		"body":  "No location for this one",
	})

	// feed sin coordenadas: todos
	st, body, _ := doReq(t, ts.URL, "GET", "/api/posts", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 feed, got %d", st)
	}
	ids := idsOf(t, body)
	if !ids[near] || !ids[far] || !ids[nowhere] {
		t.Fatalf("feed: expected all posts, got %v", ids)
	}

	// feed con bounding box: el lejano sale, el sin coordenadas queda
	st, body, _ = doReq(t, ts.URL, "GET", "/api/posts?lat=45.5152&lng=-122.6784&radiusKm=100", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 geo feed, got %d", st)
	}
	ids = idsOf(t, body)
	if !ids[near] || ids[far] || !ids[nowhere] {
		t.Fatalf("geo feed: expected near+nowhere, got %v", ids)
	}

	// lat malformada excluye a los que sí tienen coordenadas
	st, body, _ = doReq(t, ts.URL, "GET", "/api/posts?lat=abc&lng=-122.68", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 malformed lat feed, got %d", st)
	}
	ids = idsOf(t, body)
	if ids[near] || ids[far] || !ids[nowhere] {
		t.Fatalf("malformed lat: only coordless posts should pass, got %v", ids)
	}

	// búsqueda por substring
	st, body, _ = doReq(t, ts.URL, "GET", "/api/posts?q=laurelhurst", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 search feed, got %d", st)
	}
	ids = idsOf(t, body)
	if !ids[near] || ids[far] {
		t.Fatalf("search: expected only laurelhurst post, got %v", ids)
	}

	// /mine devuelve solo los propios
	st, body, _ = doReq(t, ts.URL, "GET", "/api/posts/mine", tokenB, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 mine, got %d", st)
	}
	ids = idsOf(t, body)
	if ids[near] || !ids[far] || !ids[nowhere] {
		t.Fatalf("mine: expected only B posts, got %v", ids)
	}

	// meetupAt inválido => 400
	st, _, _ = doReq(t, ts.URL, "POST", "/api/posts", tokenA, map[string]any{
		"title":    "Bad date",
		"body":     "x",
		"meetupAt": "tomorrow",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 bad meetupAt, got %d", st)
	}

	// RSVP idempotente: dos veces deja un solo asistente
	for i := 0; i < 2; i++ {
		st, body, _ = doReq(t, ts.URL, "POST", "/api/posts/"+near+"/rsvp", tokenB, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 rsvp, got %d body=%s", st, string(body))
		}
	}
	var detail struct {
		RSVPs []struct {
			UserID string `json:"userId"`
		} `json:"rsvps"`
	}
	_ = json.Unmarshal(body, &detail)
	if len(detail.RSVPs) != 1 || detail.RSVPs[0].UserID != idB {
		t.Fatalf("rsvp idempotency: unexpected attendees body=%s", string(body))
	}

	// el feed anota userRsvped para el que tiene RSVP
	st, body, _ = doReq(t, ts.URL, "GET", "/api/posts?q=laurelhurst", tokenB, nil)
	var feed []struct {
		UserRsvped bool `json:"userRsvped"`
		RSVPCount  int  `json:"rsvpCount"`
	}
	_ = json.Unmarshal(body, &feed)
	if len(feed) != 1 || !feed[0].UserRsvped || feed[0].RSVPCount != 1 {
		t.Fatalf("feed rsvp annotation: body=%s", string(body))
	}

	// cancelar RSVP; repetir => 404
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/posts/"+near+"/rsvp", tokenB, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 cancel rsvp, got %d", st)
	}
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/posts/"+near+"/rsvp", tokenB, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 cancel rsvp twice, got %d", st)
	}

	// PATCH/DELETE ajenos => 404
	st, _, _ = doReq(t, ts.URL, "PATCH", "/api/posts/"+near, tokenB, map[string]any{"title": "mine now"})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 cross-author patch, got %d", st)
	}
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/posts/"+near, tokenB, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 cross-author delete, got %d", st)
	}

	// autor sí puede borrar
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/posts/"+near, tokenA, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete own post, got %d", st)
	}
}

func TestHTTP_MessagesThreadAndConversations(t *testing.T) {
	ts, _ := newTestApp(t)
	tokenA, idA := registerUser(t, ts.URL, "ma@example.com")
	tokenB, idB := registerUser(t, ts.URL, "mb@example.com")
	tokenC, idC := registerUser(t, ts.URL, "mc@example.com")

	// receiver inexistente => 404
	st, _, _ := doReq(t, ts.URL, "POST", "/api/messages", tokenA, map[string]any{
		"receiverId": "nope",
		"content":    "hello?",
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown receiver, got %d", st)
	}

	// contenido vacío => 400
	st, _, _ = doReq(t, ts.URL, "POST", "/api/messages", tokenA, map[string]any{
		"receiverId": idB,
		"content":    "   ",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 empty content, got %d", st)
	}

	sendMessage(t, ts.URL, tokenA, idB, "hola! vi tu post")
	sendMessage(t, ts.URL, tokenB, idA, "hola, cómo va")
	sendMessage(t, ts.URL, tokenA, idC, "nos vemos el sábado")

	// el hilo llega ascendente y los recibidos aún figuran sin leer
	st, body, _ := doReq(t, ts.URL, "GET", "/api/messages/with/"+idA, tokenB, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 thread, got %d body=%s", st, string(body))
	}
	var thread []struct {
		SenderID string     `json:"senderId"`
		ReadAt   *time.Time `json:"readAt"`
	}
	_ = json.Unmarshal(body, &thread)
	if len(thread) != 2 || thread[0].SenderID != idA {
		t.Fatalf("thread: unexpected order body=%s", string(body))
	}
	if thread[0].ReadAt != nil {
		t.Fatalf("thread: first fetch should show pre-mark state body=%s", string(body))
	}

	// segunda lectura: los de A hacia B ya quedaron marcados
	_, body, _ = doReq(t, ts.URL, "GET", "/api/messages/with/"+idA, tokenB, nil)
	_ = json.Unmarshal(body, &thread)
	if thread[0].ReadAt == nil {
		t.Fatalf("thread: expected read mark on second fetch body=%s", string(body))
	}
	// la dirección B->A no se toca
	_, body, _ = doReq(t, ts.URL, "GET", "/api/messages/with/"+idB, tokenA, nil)
	_ = json.Unmarshal(body, &thread)
	if thread[0].ReadAt == nil || thread[1].ReadAt != nil {
		t.Fatalf("thread: wrong direction marked body=%s", string(body))
	}

	// relación: C comparte meetup con A, B es amigo de A
	post := createPost(t, ts.URL, tokenA, map[string]any{"title": "Walk", "body": "x"})
	doReq(t, ts.URL, "POST", "/api/posts/"+post+"/rsvp", tokenA, nil)
	doReq(t, ts.URL, "POST", "/api/posts/"+post+"/rsvp", tokenC, nil)
	doReq(t, ts.URL, "POST", "/api/users/"+idB+"/friend", tokenA, nil)

	st, body, _ = doReq(t, ts.URL, "GET", "/api/messages/conversations", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 conversations, got %d body=%s", st, string(body))
	}
	var convs []struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		LastMessage *struct {
			FromMe bool `json:"fromMe"`
		} `json:"lastMessage"`
		Relation string `json:"relation"`
	}
	_ = json.Unmarshal(body, &convs)
	if len(convs) != 2 {
		t.Fatalf("conversations: expected 2 peers body=%s", string(body))
	}
	// más reciente primero: C
	if convs[0].User.ID != idC || convs[0].Relation != "shared-meetup" {
		t.Fatalf("conversations[0]: expected C shared-meetup body=%s", string(body))
	}
	if convs[1].User.ID != idB || convs[1].Relation != "friend" {
		t.Fatalf("conversations[1]: expected B friend body=%s", string(body))
	}
	if convs[0].LastMessage == nil || !convs[0].LastMessage.FromMe {
		t.Fatalf("conversations: lastMessage fromMe wrong body=%s", string(body))
	}
}

func TestHTTP_FriendsAndPublicProfile(t *testing.T) {
	ts, _ := newTestApp(t)
	tokenA, idA := registerUser(t, ts.URL, "fa@example.com")
	_, idB := registerUser(t, ts.URL, "fb@example.com")

	// no se puede ser amigo de uno mismo
	st, _, _ := doReq(t, ts.URL, "POST", "/api/users/"+idA+"/friend", tokenA, nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 self friend, got %d", st)
	}

	// amigo inexistente => 404
	st, _, _ = doReq(t, ts.URL, "POST", "/api/users/ghost/friend", tokenA, nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown friend target, got %d", st)
	}

	st, _, _ = doReq(t, ts.URL, "POST", "/api/users/"+idB+"/friend", tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 friend, got %d", st)
	}

	// perfil público refleja la amistad
	st, body, _ := doReq(t, ts.URL, "GET", "/api/users/"+idB, tokenA, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 public profile, got %d body=%s", st, string(body))
	}
	var pub struct {
		IsSelf   bool `json:"isSelf"`
		IsFriend bool `json:"isFriend"`
	}
	_ = json.Unmarshal(body, &pub)
	if pub.IsSelf || !pub.IsFriend {
		t.Fatalf("public profile: expected friend body=%s", string(body))
	}

	// perfil propio via {id}
	st, body, _ = doReq(t, ts.URL, "GET", "/api/users/"+idA, tokenA, nil)
	_ = json.Unmarshal(body, &pub)
	if st != http.StatusOK || !pub.IsSelf {
		t.Fatalf("public profile self: got %d body=%s", st, string(body))
	}

	// unfriend es idempotente y deja isFriend en false
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/users/"+idB+"/friend", tokenA, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 unfriend, got %d", st)
	}
	st, _, _ = doReq(t, ts.URL, "DELETE", "/api/users/"+idB+"/friend", tokenA, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 unfriend twice, got %d", st)
	}
	_, body, _ = doReq(t, ts.URL, "GET", "/api/users/"+idB, tokenA, nil)
	_ = json.Unmarshal(body, &pub)
	if pub.IsFriend {
		t.Fatalf("public profile: friendship should be gone body=%s", string(body))
	}
}

func TestHTTP_Reports(t *testing.T) {
	ts, _ := newTestApp(t)
	tokenA, _ := registerUser(t, ts.URL, "ra@example.com")
	_, idB := registerUser(t, ts.URL, "rb@example.com")

	// tipo inválido => 400
	st, _, _ := doReq(t, ts.URL, "POST", "/api/reports", tokenA, map[string]any{
		"type":     "meetup",
		"targetId": idB,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 bad report type, got %d", st)
	}

	st, body, _ := doReq(t, ts.URL, "POST", "/api/reports", tokenA, map[string]any{
		"type":     "user",
		"targetId": idB,
		"reason":   "aggressive messages",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 report, got %d body=%s", st, string(body))
	}
	var rep struct {
		ID     string  `json:"id"`
		Reason *string `json:"reason"`
	}
	_ = json.Unmarshal(body, &rep)
	if rep.ID == "" || rep.Reason == nil {
		t.Fatalf("report: unexpected body=%s", string(body))
	}

	// guest no puede reportar
	st, _, _ = doReq(t, ts.URL, "POST", "/api/reports", "", map[string]any{
		"type":     "user",
		"targetId": idB,
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 guest report, got %d", st)
	}
}

func TestHTTP_SupportContent(t *testing.T) {
	ts, app := newTestApp(t)

	log := logger.New(logger.Options{Level: logger.Error})
	if err := seed.Run(context.Background(), log, app.SupportRepo, app.AccountsSvc); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// contenido global, sin auth
	st, body, _ := doReq(t, ts.URL, "GET", "/api/support", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 support, got %d", st)
	}
	var grouped map[string][]struct {
		Slug string `json:"slug"`
	}
	_ = json.Unmarshal(body, &grouped)
	if len(grouped["Basics"]) == 0 {
		t.Fatalf("support: expected Basics category body=%s", string(body))
	}

	st, body, _ = doReq(t, ts.URL, "GET", "/api/support/understanding-reactivity", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 article, got %d", st)
	}
	var article struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	_ = json.Unmarshal(body, &article)
	if article.Title == "" || article.Body == "" {
		t.Fatalf("article: empty body=%s", string(body))
	}

	st, body, _ = doReq(t, ts.URL, "GET", "/api/support/no-such-article", "", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 unknown article, got %d", st)
	}
	if msg := errorMsg(body); msg != "Article not found" {
		t.Fatalf("unknown article: unexpected message %q", msg)
	}

	// /resources es ruta estática, no un slug
	st, body, _ = doReq(t, ts.URL, "GET", "/api/support/resources", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 resources, got %d body=%s", st, string(body))
	}
	var resources map[string][]struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(body, &resources)
	if len(resources["Books"]) == 0 {
		t.Fatalf("resources: expected Books category body=%s", string(body))
	}

	// el seed es re-ejecutable
	if err := seed.Run(context.Background(), log, app.SupportRepo, app.AccountsSvc); err != nil {
		t.Fatalf("seed rerun: %v", err)
	}
}

func TestHTTP_DevModeDebugHeader(t *testing.T) {
	app := router.New(router.Options{
		Log: logger.New(logger.Options{Level: logger.Error}),
	})
	ts := httptest.NewServer(app.Handler)
	defer ts.Close()

	// sin verifier, X-Debug-User-ID inyecta la identidad
	req, _ := http.NewRequest("GET", ts.URL+"/api/dogs", nil)
	req.Header.Set("X-Debug-User-ID", "dev-user-1")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("dev request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 dev mode list, got %d", res.StatusCode)
	}

	// sin header => guest
	req, _ = http.NewRequest("GET", ts.URL+"/api/dogs", nil)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("guest request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 guest, got %d", res.StatusCode)
	}
}

func TestHTTP_Health(t *testing.T) {
	ts, _ := newTestApp(t)
	st, body, _ := doReq(t, ts.URL, "GET", "/api/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d body=%s", st, string(body))
	}
}

// --- helpers ---

func registerUser(t *testing.T, baseURL, email string) (token, id string) {
	t.Helper()

	st, body, _ := doReq(t, baseURL, "POST", "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "secret123",
		"name":     email,
	})
	if st != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d body=%s", email, st, string(body))
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" || resp.User.ID == "" {
		t.Fatalf("register %s: missing session body=%s", email, string(body))
	}
	return resp.Token, resp.User.ID
}

func setLocation(t *testing.T, baseURL, token string, lat, lng float64) {
	t.Helper()

	st, body, _ := doReq(t, baseURL, "PATCH", "/api/users/me", token, map[string]any{
		"lat": lat,
		"lng": lng,
	})
	if st != http.StatusOK {
		t.Fatalf("set location: expected 200, got %d body=%s", st, string(body))
	}
}

func createPost(t *testing.T, baseURL, token string, payload map[string]any) string {
	t.Helper()

	st, body, _ := doReq(t, baseURL, "POST", "/api/posts", token, payload)
	if st != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d body=%s", st, string(body))
	}
	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create post: missing id body=%s", string(body))
	}
	return resp.ID
}

func sendMessage(t *testing.T, baseURL, token, receiverID, content string) {
	t.Helper()

	st, body, _ := doReq(t, baseURL, "POST", "/api/messages", token, map[string]any{
		"receiverId": receiverID,
		"content":    content,
	})
	if st != http.StatusCreated {
		t.Fatalf("send message: expected 201, got %d body=%s", st, string(body))
	}
	// los tests de orden dependen de createdAt distintos
	time.Sleep(5 * time.Millisecond)
}

// idsOf junta los "id" de una respuesta-array.
func idsOf(t *testing.T, body []byte) map[string]bool {
	t.Helper()

	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("idsOf: %v body=%s", err, string(body))
	}
	out := make(map[string]bool, len(list))
	for _, it := range list {
		out[it.ID] = true
	}
	return out
}

func errorMsg(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.Error
}

func findCookie(res *http.Response, name string) *http.Cookie {
	if res == nil {
		return nil
	}
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func doReq(t *testing.T, baseURL, method, path, bearer string, body any) (int, []byte, *http.Response) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody, res
}

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"outfitapi/lexicon"
	"outfitapi/models"
	"outfitapi/services"
	"outfitapi/stylist"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// JWTSecret signs every token made by the helpers below.
const JWTSecret = "test-secret"

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Str("user", userPk).Msg("signing test token")
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", GenerateUserToken(userPk)))
	return req
}

func NewJSONAuthRequestRaw(method string, target string, userPk string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", GenerateUserToken(userPk)))
	return req
}

// Item builds an unsaved wardrobe item.
func Item(category, subcategory string, colors ...string) models.Clothing {
	return models.Clothing{
		Name:        strings.TrimSpace(subcategory + " " + category),
		Category:    category,
		Subcategory: subcategory,
		Colors:      colors,
	}
}

// MemoryWardrobe is an in-memory WardrobeStore and OutfitStore.
type MemoryWardrobe struct {
	mu      sync.Mutex
	nextID  uint
	items   []models.Clothing
	outfits []models.Outfit

	FetchErr error
	SaveErr  error
}

func NewMemoryWardrobe() *MemoryWardrobe {
	return &MemoryWardrobe{}
}

// Add stores items for the user and returns them with IDs set.
func (w *MemoryWardrobe) Add(userID uint, items ...models.Clothing) []models.Clothing {
	out := make([]models.Clothing, len(items))
	for i, item := range items {
		item.OwnerID = userID
		_ = w.CreateItem(context.Background(), &item)
		out[i] = item
	}
	return out
}

func (w *MemoryWardrobe) FetchItems(ctx context.Context, userID uint, kind models.LayerKind, limit int) ([]models.Clothing, error) {
	if w.FetchErr != nil {
		return nil, w.FetchErr
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []models.Clothing
	for i := len(w.items) - 1; i >= 0 && len(out) < limit; i-- {
		item := w.items[i]
		if item.OwnerID == userID && lexicon.MatchesLayer(item, kind) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (w *MemoryWardrobe) CreateItem(ctx context.Context, item *models.Clothing) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	item.ID = w.nextID
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	w.items = append(w.items, *item)
	return nil
}

func (w *MemoryWardrobe) ListItems(ctx context.Context, userID uint) ([]models.Clothing, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []models.Clothing
	for i := len(w.items) - 1; i >= 0; i-- {
		if w.items[i].OwnerID == userID {
			out = append(out, w.items[i])
		}
	}
	return out, nil
}

func (w *MemoryWardrobe) FindItems(ctx context.Context, userID uint, ids []uint) ([]models.Clothing, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.Clothing, 0, len(ids))
	for _, id := range ids {
		item, ok := w.find(userID, id)
		if !ok {
			return nil, fmt.Errorf("item %d: %w", id, services.ErrItemsNotFound)
		}
		out = append(out, item)
	}
	return out, nil
}

func (w *MemoryWardrobe) DeleteItem(ctx context.Context, userID uint, id uint) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, item := range w.items {
		if item.ID == id && item.OwnerID == userID {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return nil
		}
	}
	return services.ErrItemsNotFound
}

func (w *MemoryWardrobe) SaveOutfit(ctx context.Context, userID uint, slots []stylist.Slot, meta services.OutfitMeta) (*models.Outfit, error) {
	if w.SaveErr != nil {
		return nil, w.SaveErr
	}
	if len(slots) == 0 {
		return nil, services.ErrItemsNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	status := meta.Status
	if status == "" {
		status = models.OutfitStatusSaved
	}
	outfit := models.Outfit{
		Name:     meta.Name,
		Occasion: meta.Occasion,
		Date:     meta.Date,
		Favorite: meta.Favorite,
		Status:   status,
		Prompt:   meta.Prompt,
		Note:     meta.Note,
		OwnerID:  userID,
	}
	outfit.ID = w.nextID
	outfit.CreatedAt = time.Now()
	for i, slot := range slots {
		outfit.Items = append(outfit.Items, models.OutfitItem{
			ClothingID: slot.Item.ID,
			Clothing:   slot.Item,
			Kind:       slot.Kind,
			Position:   i,
		})
	}
	w.outfits = append(w.outfits, outfit)
	return &outfit, nil
}

func (w *MemoryWardrobe) ListOutfits(ctx context.Context, userID uint) ([]models.Outfit, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []models.Outfit
	for i := len(w.outfits) - 1; i >= 0; i-- {
		if w.outfits[i].OwnerID == userID {
			out = append(out, w.outfits[i])
		}
	}
	return out, nil
}

func (w *MemoryWardrobe) find(userID, id uint) (models.Clothing, bool) {
	for _, item := range w.items {
		if item.ID == id && item.OwnerID == userID {
			return item, true
		}
	}
	return models.Clothing{}, false
}

// MemoryUsers is an in-memory UserStore.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[uint]models.UserAccount
}

func NewMemoryUsers(users ...models.UserAccount) *MemoryUsers {
	m := &MemoryUsers{users: make(map[uint]models.UserAccount)}
	for _, u := range users {
		m.Put(u)
	}
	return m
}

func (m *MemoryUsers) Put(user models.UserAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MemoryUsers) FindUser(ctx context.Context, id uint) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.Banned {
		return nil, services.ErrUserNotFound
	}
	return &user, nil
}

func (m *MemoryUsers) FindUserByTelegram(ctx context.Context, username string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	username = strings.ToLower(strings.TrimPrefix(username, "@"))
	for _, user := range m.users {
		if !user.Banned && user.TelegramUsername != "" && strings.ToLower(user.TelegramUsername) == username {
			return &user, nil
		}
	}
	return nil, services.ErrUserNotFound
}

func (m *MemoryUsers) UsersWithDailyPrompt(ctx context.Context) ([]models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserAccount
	for _, user := range m.users {
		if !user.Banned && user.DailyPrompt != "" {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FakeUser is a plain account with the given id.
func FakeUser(id uint) models.UserAccount {
	user := models.UserAccount{
		Name:     "OurName",
		Email:    fmt.Sprintf("user%d@example.com", id),
		Platform: models.PlatformIOS,
	}
	user.ID = id
	return user
}

type AWSProviderMock struct {
	MockUrl    string
	PresignErr error
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	if awsService.PresignErr != nil {
		return "", awsService.PresignErr
	}
	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

type URLCacheMock struct {
	Err error
}

func (m *URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if objectKey == "" {
		return "", nil
	}
	return "https://cdn.example.com/" + objectKey, nil
}

// EnqueuerMock records tasks instead of sending them to redis.
type EnqueuerMock struct {
	mu    sync.Mutex
	Tasks []*asynq.Task
	Err   error
}

func (m *EnqueuerMock) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks = append(m.Tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type(), Payload: task.Payload()}, nil
}

type NotifyCall struct {
	UserID uint
	Title  string
	Body   string
	Data   map[string]string
}

type NotifierMock struct {
	mu    sync.Mutex
	Calls []NotifyCall
	Err   error
}

func (m *NotifierMock) Notify(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, NotifyCall{UserID: userID, Title: title, Body: body, Data: data})
	return m.Err
}

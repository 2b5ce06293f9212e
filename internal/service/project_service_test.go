package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
	"github.com/ahavlova/portfolio-backend/internal/repository"
	"github.com/ahavlova/portfolio-backend/internal/storage"
)

// fakeProjectStore — хранилище проектов в памяти для тестов сервиса.
type fakeProjectStore struct {
	projects map[uuid.UUID]*models.Project
	// orderingCalls накапливает вызовы ApplyOrdering для проверки атомарности.
	orderingCalls [][]repository.ProjectOrder
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[uuid.UUID]*models.Project)}
}

func (f *fakeProjectStore) add(p models.Project) *models.Project {
	if p.ID == (uuid.UUID{}) {
		p.ID = uuid.New()
	}
	cp := p
	f.projects[cp.ID] = &cp
	return &cp
}

func (f *fakeProjectStore) Create(_ context.Context, p *models.Project) error {
	for _, existing := range f.projects {
		if existing.Slug == p.Slug {
			return repository.ErrSlugTaken
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeProjectStore) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrProjectNotFound
}

func (f *fakeProjectStore) ListAll(_ context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectStore) ListSiblings(_ context.Context, parentID *uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if sameParent(p.ParentID, parentID) {
			out = append(out, *p)
		}
	}
	sortByOrder(out)
	return out, nil
}

func (f *fakeProjectStore) Count(_ context.Context) (int, error) {
	return len(f.projects), nil
}

func (f *fakeProjectStore) CountChildren(_ context.Context, id uuid.UUID) (int, error) {
	n := 0
	for _, p := range f.projects {
		if p.ParentID != nil && *p.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (f *fakeProjectStore) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectStore) Rename(_ context.Context, id uuid.UUID, name, slug string) error {
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	p.Name = name
	p.Slug = slug
	return nil
}

func (f *fakeProjectStore) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	p.IsPublished = published
	return nil
}

func (f *fakeProjectStore) SetTitleStyle(_ context.Context, id uuid.UUID, style models.TitleStyle) error {
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	p.TitleStyle = style
	return nil
}

func (f *fakeProjectStore) SetDescriptions(_ context.Context, id uuid.UUID, cs, en *string) error {
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	p.DescriptionCS = cs
	p.DescriptionEN = en
	return nil
}

func (f *fakeProjectStore) SetMainImage(_ context.Context, id uuid.UUID, imageURL *string) error {
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrProjectNotFound
	}
	p.MainImageURL = imageURL
	return nil
}

func (f *fakeProjectStore) ApplyOrdering(_ context.Context, updates []repository.ProjectOrder) error {
	f.orderingCalls = append(f.orderingCalls, updates)
	for _, u := range updates {
		p, ok := f.projects[u.ID]
		if !ok {
			return repository.ErrProjectNotFound
		}
		p.OrderIndex = u.OrderIndex
		p.ParentID = u.ParentID
	}
	return nil
}

func (f *fakeProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(f.projects, id)
	return nil
}

// fakePhotoStore — фотографии проектов в памяти.
type fakePhotoStore struct {
	photos []models.Photo
}

func (f *fakePhotoStore) InsertBatch(_ context.Context, photos []models.Photo) error {
	f.photos = append(f.photos, photos...)
	return nil
}

func (f *fakePhotoStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.Photo, error) {
	var out []models.Photo
	for _, p := range f.photos {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotoStore) DeleteByImageURL(_ context.Context, projectID uuid.UUID, imageURL string) error {
	for i, p := range f.photos {
		if p.ProjectID == projectID && p.ImageURL == imageURL {
			f.photos = append(f.photos[:i], f.photos[i+1:]...)
			return nil
		}
	}
	return repository.ErrPhotoNotFound
}

// fakeFiles — хранилище файлов, запоминающее удаления.
type fakeFiles struct {
	deleted []string
}

func (f *fakeFiles) PresignUpload(_ context.Context, key, _ string) (storage.UploadTarget, error) {
	return storage.UploadTarget{Key: key, URL: "http://files.test/upload/" + key, PublicURL: f.PublicURL(key)}, nil
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFiles) PublicURL(key string) string {
	return "http://files.test/" + key
}

func (f *fakeFiles) KeyFromPublicURL(url string) (string, bool) {
	const prefix = "http://files.test/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	return url[len(prefix):], true
}

func newProjectService(store *fakeProjectStore) (*ProjectService, *fakePhotoStore, *fakeFiles) {
	photos := &fakePhotoStore{}
	files := &fakeFiles{}
	return NewProjectService(store, photos, files), photos, files
}

func TestProjectServiceCreate(t *testing.T) {
	store := newFakeProjectStore()
	store.add(models.Project{Name: "Старый", Slug: "stary", OrderIndex: 0})
	svc, _, _ := newProjectService(store)

	p, err := svc.Create(context.Background(), "  Svatba Nováků 2025  ", false, nil)
	if err != nil {
		t.Fatalf("неожиданная ошибка создания: %v", err)
	}
	if p.Name != "Svatba Nováků 2025" {
		t.Errorf("имя должно быть обрезано: %q", p.Name)
	}
	if p.Slug != "svatba-novaku-2025" {
		t.Errorf("неверный slug: %q", p.Slug)
	}
	if p.IsPublished {
		t.Errorf("новый проект должен быть скрыт")
	}
	if p.OrderIndex != 1 {
		t.Errorf("order_index должен равняться числу проектов до вставки, получено %d", p.OrderIndex)
	}
	if p.TitleStyle != models.TitleStyleWhiteText {
		t.Errorf("стиль заголовка по умолчанию должен быть white_text")
	}
}

func TestProjectServiceCreateEmptyName(t *testing.T) {
	svc, _, _ := newProjectService(newFakeProjectStore())

	if _, err := svc.Create(context.Background(), "   ", false, nil); !apperror.IsValidation(err) {
		t.Errorf("ожидалась ошибка валидации, получено: %v", err)
	}
}

func TestProjectServiceCreateUnderNonCollection(t *testing.T) {
	store := newFakeProjectStore()
	plain := store.add(models.Project{Name: "Проект", Slug: "proekt"})
	svc, _, _ := newProjectService(store)

	if _, err := svc.Create(context.Background(), "Вложенный", false, &plain.ID); !apperror.IsValidation(err) {
		t.Errorf("родителем может быть только коллекция, получено: %v", err)
	}
}

func TestProjectServiceCreateNestedCollection(t *testing.T) {
	store := newFakeProjectStore()
	col := store.add(models.Project{Name: "Коллекция", Slug: "kolekce", IsCollection: true})
	svc, _, _ := newProjectService(store)

	if _, err := svc.Create(context.Background(), "Вложенная", true, &col.ID); !apperror.IsValidation(err) {
		t.Errorf("вложенные коллекции запрещены, получено: %v", err)
	}
}

func TestProjectServiceReorder(t *testing.T) {
	store := newFakeProjectStore()
	a := store.add(models.Project{Name: "A", Slug: "a", OrderIndex: 0})
	b := store.add(models.Project{Name: "B", Slug: "b", OrderIndex: 3})
	c := store.add(models.Project{Name: "C", Slug: "c", OrderIndex: 7})
	svc, _, _ := newProjectService(store)

	err := svc.Reorder(context.Background(), nil, []uuid.UUID{c.ID, a.ID, b.ID})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(store.orderingCalls) != 1 {
		t.Fatalf("порядок должен применяться одним вызовом, получено %d", len(store.orderingCalls))
	}
	for i, id := range []uuid.UUID{c.ID, a.ID, b.ID} {
		if store.projects[id].OrderIndex != i {
			t.Errorf("позиция %s = %d, ожидалось %d", id, store.projects[id].OrderIndex, i)
		}
	}
}

func TestProjectServiceReorderRejectsWrongSet(t *testing.T) {
	store := newFakeProjectStore()
	a := store.add(models.Project{Name: "A", Slug: "a"})
	store.add(models.Project{Name: "B", Slug: "b"})
	svc, _, _ := newProjectService(store)

	cases := map[string][]uuid.UUID{
		"пропуск":     {a.ID},
		"дубликат":    {a.ID, a.ID},
		"чужой":       {a.ID, uuid.New()},
		"лишний узел": {a.ID, a.ID, uuid.New()},
	}
	for name, ids := range cases {
		if err := svc.Reorder(context.Background(), nil, ids); !apperror.IsValidation(err) {
			t.Errorf("%s: ожидалась ошибка валидации, получено: %v", name, err)
		}
	}
	if len(store.orderingCalls) != 0 {
		t.Errorf("невалидный порядок не должен применяться")
	}
}

func TestProjectServiceMoveToCollection(t *testing.T) {
	store := newFakeProjectStore()
	col := store.add(models.Project{Name: "Svatby", Slug: "svatby", IsCollection: true, OrderIndex: 0})
	child := store.add(models.Project{Name: "Uvnitř", Slug: "uvnitr", ParentID: &col.ID, OrderIndex: 0})
	root1 := store.add(models.Project{Name: "Root1", Slug: "root1", OrderIndex: 1})
	root2 := store.add(models.Project{Name: "Root2", Slug: "root2", OrderIndex: 2})
	svc, _, _ := newProjectService(store)

	err := svc.MoveToCollection(context.Background(), root1.ID, &col.ID)
	if err != nil {
		t.Fatalf("неожиданная ошибка переноса: %v", err)
	}

	// Обе группы перенумерованы одним вызовом.
	if len(store.orderingCalls) != 1 {
		t.Fatalf("перенос должен применяться одним вызовом, получено %d", len(store.orderingCalls))
	}

	moved := store.projects[root1.ID]
	if moved.ParentID == nil || *moved.ParentID != col.ID {
		t.Fatalf("проект должен оказаться в коллекции")
	}
	if moved.OrderIndex != 1 {
		t.Errorf("перенесённый проект должен встать в конец, получено %d", moved.OrderIndex)
	}
	if store.projects[child.ID].OrderIndex != 0 {
		t.Errorf("существующий ребёнок должен остаться первым")
	}

	// Исходная группа уплотнилась.
	if store.projects[col.ID].OrderIndex != 0 || store.projects[root2.ID].OrderIndex != 1 {
		t.Errorf("корневой уровень должен быть перенумерован плотно: col=%d root2=%d",
			store.projects[col.ID].OrderIndex, store.projects[root2.ID].OrderIndex)
	}
}

func TestProjectServiceMoveToRoot(t *testing.T) {
	store := newFakeProjectStore()
	col := store.add(models.Project{Name: "Svatby", Slug: "svatby", IsCollection: true, OrderIndex: 0})
	child := store.add(models.Project{Name: "Uvnitř", Slug: "uvnitr", ParentID: &col.ID, OrderIndex: 0})
	svc, _, _ := newProjectService(store)

	if err := svc.MoveToCollection(context.Background(), child.ID, nil); err != nil {
		t.Fatalf("неожиданная ошибка переноса: %v", err)
	}

	moved := store.projects[child.ID]
	if moved.ParentID != nil {
		t.Fatalf("проект должен оказаться на корневом уровне")
	}
	if moved.OrderIndex != 1 {
		t.Errorf("проект должен встать в конец корневого уровня, получено %d", moved.OrderIndex)
	}
}

func TestProjectServiceMoveCollectionIntoCollection(t *testing.T) {
	store := newFakeProjectStore()
	col1 := store.add(models.Project{Name: "A", Slug: "a", IsCollection: true})
	col2 := store.add(models.Project{Name: "B", Slug: "b", IsCollection: true})
	svc, _, _ := newProjectService(store)

	if err := svc.MoveToCollection(context.Background(), col1.ID, &col2.ID); !apperror.IsValidation(err) {
		t.Errorf("коллекцию нельзя вложить в коллекцию, получено: %v", err)
	}
}

func TestProjectServiceMoveNoop(t *testing.T) {
	store := newFakeProjectStore()
	col := store.add(models.Project{Name: "Svatby", Slug: "svatby", IsCollection: true})
	child := store.add(models.Project{Name: "Uvnitř", Slug: "uvnitr", ParentID: &col.ID})
	svc, _, _ := newProjectService(store)

	if err := svc.MoveToCollection(context.Background(), child.ID, &col.ID); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(store.orderingCalls) != 0 {
		t.Errorf("перенос в ту же группу не должен трогать порядок")
	}
}

func TestProjectServiceDeleteNonEmptyCollection(t *testing.T) {
	store := newFakeProjectStore()
	col := store.add(models.Project{Name: "Svatby", Slug: "svatby", IsCollection: true})
	store.add(models.Project{Name: "Uvnitř", Slug: "uvnitr", ParentID: &col.ID})
	svc, _, _ := newProjectService(store)

	if err := svc.Delete(context.Background(), col.ID); !apperror.IsConflict(err) {
		t.Errorf("непустая коллекция не должна удаляться, получено: %v", err)
	}
	if _, ok := store.projects[col.ID]; !ok {
		t.Errorf("коллекция должна остаться в хранилище")
	}
}

func TestProjectServiceDeleteCleansFiles(t *testing.T) {
	store := newFakeProjectStore()
	cover := "http://files.test/photos/p1/1-cover.jpg"
	p := store.add(models.Project{Name: "P", Slug: "p", MainImageURL: &cover})
	svc, photos, files := newProjectService(store)

	photos.photos = []models.Photo{
		{ID: uuid.New(), ProjectID: p.ID, ImageURL: "http://files.test/photos/p1/1-a.jpg"},
		{ID: uuid.New(), ProjectID: p.ID, ImageURL: "http://other.example/b.jpg"},
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("неожиданная ошибка удаления: %v", err)
	}
	if len(files.deleted) != 2 {
		t.Fatalf("должны удалиться только свои файлы, удалено %d", len(files.deleted))
	}
	if files.deleted[0] != "photos/p1/1-a.jpg" || files.deleted[1] != "photos/p1/1-cover.jpg" {
		t.Errorf("удалены не те ключи: %v", files.deleted)
	}
}

func TestProjectServiceDeleteMissing(t *testing.T) {
	svc, _, _ := newProjectService(newFakeProjectStore())

	if err := svc.Delete(context.Background(), uuid.New()); !apperror.IsNotFound(err) {
		t.Errorf("ожидалась ошибка NOT_FOUND, получено: %v", err)
	}
}

func TestProjectServiceRenameRegeneratesSlug(t *testing.T) {
	store := newFakeProjectStore()
	p := store.add(models.Project{Name: "Старое имя", Slug: "stare-jmeno"})
	svc, _, _ := newProjectService(store)

	updated, err := svc.Rename(context.Background(), p.ID, "Zimní svatba")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if updated.Slug != "zimni-svatba" {
		t.Errorf("slug должен пересчитаться: %q", updated.Slug)
	}
}

func TestProjectServiceRenameSameNameKeepsSlug(t *testing.T) {
	store := newFakeProjectStore()
	p := store.add(models.Project{Name: "Svatba", Slug: "svatba-123456"})
	svc, _, _ := newProjectService(store)

	updated, err := svc.Rename(context.Background(), p.ID, "Svatba")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if updated.Slug != "svatba-123456" {
		t.Errorf("slug не должен меняться при том же имени: %q", updated.Slug)
	}
}

func TestProjectServiceToggleVisibility(t *testing.T) {
	store := newFakeProjectStore()
	p := store.add(models.Project{Name: "P", Slug: "p"})
	svc, _, _ := newProjectService(store)

	on, err := svc.ToggleVisibility(context.Background(), p.ID)
	if err != nil || !on {
		t.Fatalf("первый переключатель должен включить публикацию: %v %v", on, err)
	}
	off, err := svc.ToggleVisibility(context.Background(), p.ID)
	if err != nil || off {
		t.Fatalf("второй переключатель должен выключить публикацию: %v %v", off, err)
	}
}

func TestProjectServiceUpdateTitleStyle(t *testing.T) {
	store := newFakeProjectStore()
	p := store.add(models.Project{Name: "P", Slug: "p"})
	svc, _, _ := newProjectService(store)

	if err := svc.UpdateTitleStyle(context.Background(), p.ID, models.TitleStyleBlackOnWhite); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if err := svc.UpdateTitleStyle(context.Background(), p.ID, "rainbow"); !apperror.IsValidation(err) {
		t.Errorf("неизвестный стиль должен отклоняться, получено: %v", err)
	}
}

func TestProjectServiceUpdateDescriptionsEmptyAsNull(t *testing.T) {
	store := newFakeProjectStore()
	p := store.add(models.Project{Name: "P", Slug: "p"})
	svc, _, _ := newProjectService(store)

	if err := svc.UpdateDescriptions(context.Background(), p.ID, "  Text  ", "   "); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	got := store.projects[p.ID]
	if got.DescriptionCS == nil || *got.DescriptionCS != "Text" {
		t.Errorf("чешское описание должно сохраниться обрезанным")
	}
	if got.DescriptionEN != nil {
		t.Errorf("пустое описание должно храниться как NULL")
	}
}

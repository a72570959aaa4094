package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/auth"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount
	signIns  int
	removed  []primitive.ObjectID
}

type fakeAccount struct {
	uid      primitive.ObjectID
	password string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: map[string]fakeAccount{}}
}

func (f *fakeIdentity) add(email, password string, uid primitive.ObjectID) {
	f.accounts[auth.NormalizeEmail(email)] = fakeAccount{uid: uid, password: password}
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signIns++
	acc, ok := f.accounts[auth.NormalizeEmail(email)]
	if !ok || acc.password != password {
		return nil, apperror.Authentication("invalid email or password")
	}
	return &auth.Identity{UID: acc.uid, Email: auth.NormalizeEmail(email)}, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := auth.NormalizeEmail(email)
	if _, ok := f.accounts[key]; ok {
		return nil, apperror.Conflict("an account with this email already exists")
	}
	uid := primitive.NewObjectID()
	f.accounts[key] = fakeAccount{uid: uid, password: password}
	return &auth.Identity{UID: uid, Email: key}, nil
}

func (f *fakeIdentity) Remove(_ context.Context, uid primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, uid)
	for k, acc := range f.accounts {
		if acc.uid == uid {
			delete(f.accounts, k)
		}
	}
	return nil
}

type fakeUsers struct {
	users   map[primitive.ObjectID]models.User
	deletes int
	err     error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, id primitive.ObjectID, up store.UserUpdate) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if up.DisplayName != nil {
		u.DisplayName = *up.DisplayName
	}
	if up.ProfileImage != nil {
		u.ProfileImage = *up.ProfileImage
	}
	if up.Role != nil {
		u.Role = *up.Role
	}
	if up.Blocked != nil {
		u.Blocked = *up.Blocked
	}
	if up.Permissions != nil {
		if len(*up.Permissions) == 0 {
			u.Permissions = nil
		} else {
			u.Permissions = *up.Permissions
		}
	}
	f.users[id] = u
	return &u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deletes++
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakePatients struct {
	patients map[primitive.ObjectID]models.Patient
}

func newFakePatients() *fakePatients {
	return &fakePatients{patients: map[primitive.ObjectID]models.Patient{}}
}

func matches(p models.Patient, f store.PatientFilter) bool {
	if f.TherapistID != "" && !p.HasTherapist(f.TherapistID) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.FullName), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (f *fakePatients) Create(_ context.Context, p *models.Patient) error {
	f.patients[p.ID] = *p
	return nil
}

func (f *fakePatients) Get(_ context.Context, id primitive.ObjectID, filter store.PatientFilter) (*models.Patient, error) {
	p, ok := f.patients[id]
	if !ok || !matches(p, filter) {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakePatients) List(_ context.Context, filter store.PatientFilter) ([]models.Patient, error) {
	var out []models.Patient
	for _, p := range f.patients {
		if matches(p, filter) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakePatients) Replace(_ context.Context, p *models.Patient) error {
	if _, ok := f.patients[p.ID]; !ok {
		return store.ErrNotFound
	}
	f.patients[p.ID] = *p
	return nil
}

func (f *fakePatients) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.patients[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatients) Count(ctx context.Context, filter store.PatientFilter) (int64, error) {
	list, _ := f.List(ctx, filter)
	return int64(len(list)), nil
}

type fakeVisits struct {
	visits map[primitive.ObjectID]models.Visit
}

func newFakeVisits() *fakeVisits {
	return &fakeVisits{visits: map[primitive.ObjectID]models.Visit{}}
}

func (f *fakeVisits) Create(_ context.Context, v *models.Visit) error {
	f.visits[v.ID] = *v
	return nil
}

func (f *fakeVisits) Get(_ context.Context, patientID, id primitive.ObjectID) (*models.Visit, error) {
	v, ok := f.visits[id]
	if !ok || v.PatientID != patientID {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (f *fakeVisits) ListByPatient(_ context.Context, patientID primitive.ObjectID) ([]models.Visit, error) {
	var out []models.Visit
	for _, v := range f.visits {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeVisits) Replace(_ context.Context, v *models.Visit) error {
	if _, ok := f.visits[v.ID]; !ok {
		return store.ErrNotFound
	}
	f.visits[v.ID] = *v
	return nil
}

func (f *fakeVisits) Delete(_ context.Context, patientID, id primitive.ObjectID) error {
	v, ok := f.visits[id]
	if !ok || v.PatientID != patientID {
		return store.ErrNotFound
	}
	delete(f.visits, id)
	return nil
}

func (f *fakeVisits) DeleteByPatient(_ context.Context, patientID primitive.ObjectID) error {
	for id, v := range f.visits {
		if v.PatientID == patientID {
			delete(f.visits, id)
		}
	}
	return nil
}

func (f *fakeVisits) Count(_ context.Context) (int64, error) {
	return int64(len(f.visits)), nil
}

type fakeHumanBody struct {
	records map[primitive.ObjectID]models.HumanBodyRecord
}

func (f *fakeHumanBody) Create(_ context.Context, r *models.HumanBodyRecord) error {
	f.records[r.ID] = *r
	return nil
}

func (f *fakeHumanBody) Get(_ context.Context, id primitive.ObjectID) (*models.HumanBodyRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (f *fakeHumanBody) List(_ context.Context) ([]models.HumanBodyRecord, error) {
	var out []models.HumanBodyRecord
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeHumanBody) Replace(_ context.Context, r *models.HumanBodyRecord) error {
	if _, ok := f.records[r.ID]; !ok {
		return store.ErrNotFound
	}
	f.records[r.ID] = *r
	return nil
}

func (f *fakeHumanBody) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeReports struct {
	reports []models.Report
}

func (f *fakeReports) Create(_ context.Context, r *models.Report) error {
	f.reports = append(f.reports, *r)
	return nil
}

func (f *fakeReports) List(_ context.Context, kind models.ReportKind) ([]models.Report, error) {
	var out []models.Report
	for _, r := range f.reports {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeConfig struct {
	cfg *models.AppConfig
	err error
}

func (f *fakeConfig) Load(context.Context) (*models.AppConfig, error) {
	if f.err != nil {
		return nil, apperror.ConfigUnavailable(f.err)
	}
	return f.cfg, nil
}

func (f *fakeConfig) Reload(ctx context.Context) (*models.AppConfig, error) {
	return f.Load(ctx)
}

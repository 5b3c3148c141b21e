package usecase_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/dto"
)

// In-memory fakes backing the use case tests. They mimic the adapter layer
// contract: lookups return (nil, nil) when nothing matches.

type fakeUserRepo struct {
	users       map[string]*entity.User
	updateErrs  []error // consumed in order by Update, nil entries succeed
	memberships map[string]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[string]*entity.User),
		memberships: make(map[string]bool),
	}
}

func (r *fakeUserRepo) add(u *entity.User) {
	r.users[u.ID] = u
	if u.MembershipID != "" {
		r.memberships[u.MembershipID] = true
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByPhoneNumber(_ context.Context, phone string) (*entity.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByOtpIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	if u, err := r.FindByEmail(ctx, identifier); u != nil || err != nil {
		return u, err
	}
	return r.FindByPhoneNumber(ctx, identifier)
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if len(r.updateErrs) > 0 {
		err := r.updateErrs[0]
		r.updateErrs = r.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	// 유니크 인덱스 흉내: 다른 사용자가 이미 가진 멤버십 ID는 거부
	if u.MembershipID != "" {
		for id, other := range r.users {
			if id != u.ID && other.MembershipID == u.MembershipID {
				return errors.New("duplicate key value violates unique constraint")
			}
		}
		r.memberships[u.MembershipID] = true
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, query repository.UserQuery) ([]*entity.User, int64, error) {
	var matched []*entity.User
	for _, u := range r.users {
		if !query.Scope.AllowsUser(u) {
			continue
		}
		if query.Status != "" && u.Status != query.Status {
			continue
		}
		if query.Section != "" && u.Section != query.Section {
			continue
		}
		if query.Role != "" && u.Role != query.Role {
			continue
		}
		if query.Name != "" && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(query.Name)) {
			continue
		}
		matched = append(matched, u)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, scope entity.Scope) (map[entity.Role]int64, error) {
	counts := make(map[entity.Role]int64)
	for _, u := range r.users {
		if scope.AllowsUser(u) {
			counts[u.Role]++
		}
	}
	return counts, nil
}

func (r *fakeUserRepo) CountByStatus(_ context.Context, scope entity.Scope) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, u := range r.users {
		if scope.AllowsUser(u) {
			counts[u.Status]++
		}
	}
	return counts, nil
}

func (r *fakeUserRepo) RegistrationSeries(_ context.Context, scope entity.Scope, from, to time.Time) ([]repository.DateCount, error) {
	counts := make(map[time.Time]int64)
	for _, u := range r.users {
		if !scope.AllowsUser(u) {
			continue
		}
		if u.CreatedAt.Before(from) || u.CreatedAt.After(to) {
			continue
		}
		day := u.CreatedAt.UTC().Truncate(24 * time.Hour)
		counts[day]++
	}
	var series []repository.DateCount
	for day, n := range counts {
		series = append(series, repository.DateCount{Date: day, Count: n})
	}
	return series, nil
}

type fakeInvitationRepo struct {
	invitations map[string]*entity.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*entity.Invitation)}
}

func (r *fakeInvitationRepo) FindByEmail(_ context.Context, email string) (*entity.Invitation, error) {
	if inv, ok := r.invitations[strings.ToLower(email)]; ok {
		return inv, nil
	}
	return nil, nil
}

func (r *fakeInvitationRepo) Create(_ context.Context, inv *entity.Invitation) error {
	r.invitations[inv.Email] = inv
	return nil
}

func (r *fakeInvitationRepo) Update(_ context.Context, inv *entity.Invitation) error {
	r.invitations[inv.Email] = inv
	return nil
}

type fakeAuditRepo struct {
	trails    []*entity.AuditTrail
	createErr error
}

func (r *fakeAuditRepo) Create(_ context.Context, trail *entity.AuditTrail) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.trails = append(r.trails, trail)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, scope entity.Scope, page, perPage int) ([]*entity.AuditTrail, int64, error) {
	var matched []*entity.AuditTrail
	for _, t := range r.trails {
		if scope.OwnerOnly() && t.UserID != scope.OwnerID {
			continue
		}
		matched = append(matched, t)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeAuditRepo) byField(field string) []*entity.AuditTrail {
	var out []*entity.AuditTrail
	for _, t := range r.trails {
		if t.Field == field {
			out = append(out, t)
		}
	}
	return out
}

type fakeRecordRepo struct {
	deletedOwners []string
	series        []repository.DateCount
}

func (r *fakeRecordRepo) DeleteOwnedBy(_ context.Context, userID string) error {
	r.deletedOwners = append(r.deletedOwners, userID)
	return nil
}

func (r *fakeRecordRepo) ActivitySeries(_ context.Context, _ entity.Scope, _, _ time.Time) ([]repository.DateCount, error) {
	return r.series, nil
}

var errCacheMiss = errors.New("cache: key not found")

type fakeCacheRepo struct {
	values map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (r *fakeCacheRepo) Set(_ context.Context, key, value string, _ time.Duration) error {
	r.values[key] = value
	return nil
}

func (r *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	if v, ok := r.values[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (r *fakeCacheRepo) Delete(_ context.Context, key string) error {
	delete(r.values, key)
	return nil
}

func (r *fakeCacheRepo) IsNotFound(err error) bool {
	return errors.Is(err, errCacheMiss)
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailRepo struct {
	sent    []sentMail
	sendErr error
}

func (r *fakeMailRepo) SendMail(_ context.Context, to, subject, body string) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type sentSms struct {
	To      string
	Message string
}

type fakeSmsRepo struct {
	sent    []sentSms
	sendErr error
}

func (r *fakeSmsRepo) SendSms(_ context.Context, phoneNumber, message string) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, sentSms{To: phoneNumber, Message: message})
	return nil
}

// errTxAborted mirrors the postgres failure mode: once a statement inside a
// transaction errors, every later statement in that transaction errors too.
var errTxAborted = errors.New("current transaction is aborted, commands ignored until end of transaction block")

// fakeTx runs the function against the same repository bundle, with the
// DB-backed repositories wrapped so an in-transaction error poisons the rest
// of the transaction. Rollback of state is not simulated; tests assert on the
// returned error instead.
type fakeTx struct {
	repos *repository.Repositories
}

func (t *fakeTx) WithinTransaction(_ context.Context, fn func(repos *repository.Repositories) error) error {
	aborted := false
	txRepos := *t.repos
	txRepos.User = &txUserRepo{UserRepository: t.repos.User, aborted: &aborted}
	txRepos.Invitation = &txInvitationRepo{InvitationRepository: t.repos.Invitation, aborted: &aborted}
	txRepos.AuditTrail = &txAuditRepo{AuditTrailRepository: t.repos.AuditTrail, aborted: &aborted}
	txRepos.Record = &txRecordRepo{RecordRepository: t.repos.Record, aborted: &aborted}
	return fn(&txRepos)
}

type txUserRepo struct {
	repository.UserRepository
	aborted *bool
}

func (r *txUserRepo) Update(ctx context.Context, u *entity.User) error {
	if *r.aborted {
		return errTxAborted
	}
	if err := r.UserRepository.Update(ctx, u); err != nil {
		*r.aborted = true
		return err
	}
	return nil
}

func (r *txUserRepo) Delete(ctx context.Context, id string) error {
	if *r.aborted {
		return errTxAborted
	}
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		*r.aborted = true
		return err
	}
	return nil
}

type txInvitationRepo struct {
	repository.InvitationRepository
	aborted *bool
}

func (r *txInvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	if *r.aborted {
		return errTxAborted
	}
	if err := r.InvitationRepository.Create(ctx, inv); err != nil {
		*r.aborted = true
		return err
	}
	return nil
}

func (r *txInvitationRepo) Update(ctx context.Context, inv *entity.Invitation) error {
	if *r.aborted {
		return errTxAborted
	}
	if err := r.InvitationRepository.Update(ctx, inv); err != nil {
		*r.aborted = true
		return err
	}
	return nil
}

type txAuditRepo struct {
	repository.AuditTrailRepository
	aborted *bool
}

func (r *txAuditRepo) Create(ctx context.Context, trail *entity.AuditTrail) error {
	if *r.aborted {
		return errTxAborted
	}
	if err := r.AuditTrailRepository.Create(ctx, trail); err != nil {
		*r.aborted = true
		return err
	}
	return nil
}

type txRecordRepo struct {
	repository.RecordRepository
	aborted *bool
}

func (r *txRecordRepo) DeleteOwnedBy(ctx context.Context, userID string) error {
	if *r.aborted {
		return errTxAborted
	}
	if err := r.RecordRepository.DeleteOwnedBy(ctx, userID); err != nil {
		*r.aborted = true
		return err
	}
	return nil
}

// testRepos bundles the fakes with direct access to their concrete types.
type testRepos struct {
	*repository.Repositories
	users       *fakeUserRepo
	invitations *fakeInvitationRepo
	audits      *fakeAuditRepo
	records     *fakeRecordRepo
	cache       *fakeCacheRepo
	mail        *fakeMailRepo
	sms         *fakeSmsRepo
}

func newTestRepos() *testRepos {
	users := newFakeUserRepo()
	invitations := newFakeInvitationRepo()
	audits := &fakeAuditRepo{}
	records := &fakeRecordRepo{}
	cache := newFakeCacheRepo()
	mail := &fakeMailRepo{}
	sms := &fakeSmsRepo{}

	repos := repository.NewRepositories(users, invitations, audits, records, cache, mail, sms, nil)
	repos.Tx = &fakeTx{repos: repos}

	return &testRepos{
		Repositories: repos,
		users:        users,
		invitations:  invitations,
		audits:       audits,
		records:      records,
		cache:        cache,
		mail:         mail,
		sms:          sms,
	}
}

// stubTokenUseCase returns canned tokens so auth flows can be exercised
// without real keys.
type stubTokenUseCase struct {
	revoked []string
}

func (s *stubTokenUseCase) GenerateSessionToken(_ context.Context, user *entity.User) (string, time.Time, error) {
	return "session-" + user.ID, time.Now().Add(24 * time.Hour), nil
}

func (s *stubTokenUseCase) GenerateMfaToken(_ context.Context, user *entity.User, method string) (string, time.Time, error) {
	return "mfa-" + method + "-" + user.ID, time.Now().Add(time.Hour), nil
}

func (s *stubTokenUseCase) ValidateToken(_ context.Context, _ string) (*dto.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenUseCase) RevokeToken(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

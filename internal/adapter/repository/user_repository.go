package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/infrastructure/db/model"
)

type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository 사용자 레포지토리 구현체 생성
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// 도메인 엔티티를 DB 모델로 변환
func toUserModel(user *entity.User) *model.UserModel {
	var membershipID *string
	if user.MembershipID != "" {
		membershipID = &user.MembershipID
	}

	return &model.UserModel{
		ID:                  user.ID,
		MembershipID:        membershipID,
		FullName:            user.FullName,
		Email:               user.Email,
		PhoneNumber:         user.PhoneNumber,
		Gender:              user.Gender,
		DateOfBirth:         user.DateOfBirth,
		StateOfOrigin:       user.StateOfOrigin,
		Lga:                 user.Lga,
		Address:             user.Address,
		StateScoutCouncil:   user.StateScoutCouncil,
		ScoutDivision:       user.ScoutDivision,
		ScoutDistrict:       user.ScoutDistrict,
		Troop:               user.Troop,
		ScoutingRole:        user.ScoutingRole,
		Section:             user.Section,
		ProfilePic:          user.ProfilePic,
		Password:            user.Password,
		Salt:                user.Salt,
		Role:                string(user.Role),
		Status:              user.Status,
		EmailVerified:       user.EmailVerified,
		PhoneVerified:       user.PhoneVerified,
		EmailAuth:           user.EmailAuth,
		PhoneAuth:           user.PhoneAuth,
		AuthAppEnabled:      user.AuthAppEnabled,
		AuthAppSecret:       user.AuthAppSecret,
		EmailOtp:            user.EmailOtp,
		PhoneOtp:            user.PhoneOtp,
		OtpExpires:          user.OtpExpires,
		ResetOtp:            user.ResetOtp,
		ResetOtpExpires:     user.ResetOtpExpires,
		FailedLoginAttempts: user.FailedLoginAttempts,
		LockUntil:           user.LockUntil,
		IsLoggedIn:          user.IsLoggedIn,
		LastSignedIn:        user.LastSignedIn,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}

// DB 모델을 도메인 엔티티로 변환
func toUserEntity(m *model.UserModel) *entity.User {
	membershipID := ""
	if m.MembershipID != nil {
		membershipID = *m.MembershipID
	}

	return &entity.User{
		ID:                  m.ID,
		MembershipID:        membershipID,
		FullName:            m.FullName,
		Email:               m.Email,
		PhoneNumber:         m.PhoneNumber,
		Gender:              m.Gender,
		DateOfBirth:         m.DateOfBirth,
		StateOfOrigin:       m.StateOfOrigin,
		Lga:                 m.Lga,
		Address:             m.Address,
		StateScoutCouncil:   m.StateScoutCouncil,
		ScoutDivision:       m.ScoutDivision,
		ScoutDistrict:       m.ScoutDistrict,
		Troop:               m.Troop,
		ScoutingRole:        m.ScoutingRole,
		Section:             m.Section,
		ProfilePic:          m.ProfilePic,
		Password:            m.Password,
		Salt:                m.Salt,
		Role:                entity.Role(m.Role),
		Status:              m.Status,
		EmailVerified:       m.EmailVerified,
		PhoneVerified:       m.PhoneVerified,
		EmailAuth:           m.EmailAuth,
		PhoneAuth:           m.PhoneAuth,
		AuthAppEnabled:      m.AuthAppEnabled,
		AuthAppSecret:       m.AuthAppSecret,
		EmailOtp:            m.EmailOtp,
		PhoneOtp:            m.PhoneOtp,
		OtpExpires:          m.OtpExpires,
		ResetOtp:            m.ResetOtp,
		ResetOtpExpires:     m.ResetOtpExpires,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockUntil:           m.LockUntil,
		IsLoggedIn:          m.IsLoggedIn,
		LastSignedIn:        m.LastSignedIn,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// applyScope 확정된 조회 범위를 쿼리에 적용
func applyScope(tx *gorm.DB, scope entity.Scope) *gorm.DB {
	if scope.OwnerID != "" {
		return tx.Where("id = ?", scope.OwnerID)
	}
	if scope.Council != "" {
		tx = tx.Where("state_scout_council = ?", scope.Council)
	}
	if scope.Division != "" {
		tx = tx.Where("scout_division = ?", scope.Division)
	}
	if scope.District != "" {
		tx = tx.Where("scout_district = ?", scope.District)
	}
	if scope.Troop != "" {
		tx = tx.Where("troop = ?", scope.Troop)
	}
	if len(scope.ExcludeRoles) > 0 {
		roles := make([]string, 0, len(scope.ExcludeRoles))
		for _, r := range scope.ExcludeRoles {
			roles = append(roles, string(r))
		}
		tx = tx.Where("role NOT IN ?", roles)
	}
	return tx
}

// FindByID ID로 사용자 조회
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel

	if err := r.db.WithContext(ctx).First(&userModel, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 사용자를 찾지 못함
		}
		return nil, err
	}

	return toUserEntity(&userModel), nil
}

// FindByEmail 이메일로 사용자 조회
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel

	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toUserEntity(&userModel), nil
}

// FindByPhoneNumber 전화번호로 사용자 조회
func (r *UserRepositoryImpl) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*entity.User, error) {
	var userModel model.UserModel

	if err := r.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toUserEntity(&userModel), nil
}

// FindByOtpIdentifier 이메일 또는 전화번호로 사용자 조회
func (r *UserRepositoryImpl) FindByOtpIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var userModel model.UserModel

	err := r.db.WithContext(ctx).
		Where("email = ? OR phone_number = ?", identifier, identifier).
		First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toUserEntity(&userModel), nil
}

// Create 새 사용자 생성
func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	userModel := toUserModel(user)

	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return err
	}

	user.ID = userModel.ID
	return nil
}

// Update 사용자 정보 업데이트
func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	userModel := toUserModel(user)

	return r.db.WithContext(ctx).Save(userModel).Error
}

// Delete 사용자 삭제
func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.UserModel{}, "id = ?", id).Error
}

// List 조건에 맞는 사용자 목록과 전체 건수 조회
func (r *UserRepositoryImpl) List(ctx context.Context, query repository.UserQuery) ([]*entity.User, int64, error) {
	tx := applyScope(r.db.WithContext(ctx).Model(&model.UserModel{}), query.Scope)

	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}
	if query.Section != "" {
		tx = tx.Where("section = ?", query.Section)
	}
	if query.Role != "" {
		tx = tx.Where("role = ?", string(query.Role))
	}
	if query.Name != "" {
		tx = tx.Where("full_name ILIKE ?", "%"+query.Name+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = 20
	}

	var models []model.UserModel
	err := tx.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, toUserEntity(&models[i]))
	}

	return users, total, nil
}

// CountByRole 범위 내 역할별 사용자 수 집계
func (r *UserRepositoryImpl) CountByRole(ctx context.Context, scope entity.Scope) (map[entity.Role]int64, error) {
	type row struct {
		Role  string
		Count int64
	}

	var rows []row
	err := applyScope(r.db.WithContext(ctx).Model(&model.UserModel{}), scope).
		Select("role, count(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.Role]int64, len(rows))
	for _, r := range rows {
		counts[entity.Role(r.Role)] = r.Count
	}
	return counts, nil
}

// CountByStatus 범위 내 상태별 사용자 수 집계
func (r *UserRepositoryImpl) CountByStatus(ctx context.Context, scope entity.Scope) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	err := applyScope(r.db.WithContext(ctx).Model(&model.UserModel{}), scope).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// RegistrationSeries 범위 내 기간별 가입자 수 집계
func (r *UserRepositoryImpl) RegistrationSeries(ctx context.Context, scope entity.Scope, from, to time.Time) ([]repository.DateCount, error) {
	type row struct {
		Date  time.Time
		Count int64
	}

	var rows []row
	err := applyScope(r.db.WithContext(ctx).Model(&model.UserModel{}), scope).
		Select("date_trunc('day', created_at) AS date, count(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("1").
		Order("1").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	series := make([]repository.DateCount, 0, len(rows))
	for _, r := range rows {
		series = append(series, repository.DateCount{Date: r.Date, Count: r.Count})
	}
	return series, nil
}

package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// UpsertMovie 写入或更新电影镜像（以外部 ID 为冲突键，last-write-wins）
func (r *MediaRepository) UpsertMovie(movie *model.Movie) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(movie).Error
}

// UpsertTVShow 写入或更新剧集镜像
func (r *MediaRepository) UpsertTVShow(show *model.TVShow) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(show).Error
}

// GetMovie 根据外部 ID 查询电影镜像
func (r *MediaRepository) GetMovie(id int64) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.First(&movie, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetTVShow 根据外部 ID 查询剧集镜像
func (r *MediaRepository) GetTVShow(id int64) (*model.TVShow, error) {
	var show model.TVShow
	if err := r.db.First(&show, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &show, nil
}

// ExistsMovie 检查电影镜像是否存在
func (r *MediaRepository) ExistsMovie(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsTVShow 检查剧集镜像是否存在
func (r *MediaRepository) ExistsTVShow(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.TVShow{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// SearchMovies 按标题模糊搜索本地电影镜像（ES 不可用时的降级路径）
func (r *MediaRepository) SearchMovies(keyword string, skip, limit int) ([]model.Movie, int64, error) {
	query := r.db.Model(&model.Movie{}).Where("title ILIKE ?", "%"+keyword+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []model.Movie
	err := query.Order("cached_at DESC").Offset(skip).Limit(limit).Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// SearchTVShows 按名称模糊搜索本地剧集镜像
func (r *MediaRepository) SearchTVShows(keyword string, skip, limit int) ([]model.TVShow, int64, error) {
	query := r.db.Model(&model.TVShow{}).Where("name ILIKE ?", "%"+keyword+"%")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shows []model.TVShow
	err := query.Order("cached_at DESC").Offset(skip).Limit(limit).Find(&shows).Error
	if err != nil {
		return nil, 0, err
	}
	return shows, total, nil
}

// GetMoviesByIDs 批量查询电影镜像
func (r *MediaRepository) GetMoviesByIDs(ids []int64) ([]model.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var movies []model.Movie
	err := r.db.Where("id IN ?", ids).Find(&movies).Error
	return movies, err
}

// GetTVShowsByIDs 批量查询剧集镜像
func (r *MediaRepository) GetTVShowsByIDs(ids []int64) ([]model.TVShow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shows []model.TVShow
	err := r.db.Where("id IN ?", ids).Find(&shows).Error
	return shows, err
}

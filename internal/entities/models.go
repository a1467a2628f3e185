package entities

import "time"

// Role is the coarse authorization tag on a user. There are exactly two
// roles and no API path promotes a user; admins are provisioned out of band.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	ProfileImage *string   `gorm:"size:255" json:"profile_image"`
	Role         Role      `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;size:255;not null" json:"title"`
	Author      string    `gorm:"index;size:100;not null" json:"author"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	ImageURL    *string   `gorm:"size:255" json:"image_url"`
	FileURL     *string   `gorm:"size:255" json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favorite is a (user, book) membership fact. The composite unique index is
// what keeps concurrent toggles from producing duplicate rows.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorites_user_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_favorites_user_book;not null" json:"book_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book      Book      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating holds at most one star rating and comment per (user, book).
// A second submission updates the existing row in place.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_ratings_user_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_ratings_user_book;not null" json:"book_id"`
	Stars     int       `gorm:"column:stars;not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book      Book      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// History tracks the last read page per (user, book), upserted on every
// progress report.
type History struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex:idx_history_user_book;not null" json:"user_id"`
	BookID       uint      `gorm:"uniqueIndex:idx_history_user_book;not null" json:"book_id"`
	LastReadPage int       `gorm:"not null;default:1" json:"last_read_page"`
	User         User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book         Book      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (History) TableName() string {
	return "history"
}

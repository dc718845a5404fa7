package entities

import (
	"time"
)

// Author of one or more books. Created ad hoc through the user-facing
// "add author" form.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:255" json:"name"`
	Books     []Book    `gorm:"many2many:book_authors;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Category groups books by topic (programming, finance, ...). Managed
// through admin tooling only; there is no user-facing add flow.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:255" json:"name"`
	Books     []Book    `gorm:"many2many:book_categories;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Book is the main catalog record. OwnerID is nullable: deleting the
// owning user keeps the book and clears the reference.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CoverPath   string     `gorm:"size:1024" json:"cover_path,omitempty"`
	OwnerID     *uint      `gorm:"index" json:"owner_id,omitempty"`
	Owner       *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL;" json:"-"`
	Authors     []Author   `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	Categories  []Category `gorm:"many2many:book_categories;" json:"categories,omitempty"`
	Chapters    []Chapter  `gorm:"foreignKey:BookID" json:"chapters,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Chapter belongs to exactly one book and goes away with it.
type Chapter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"index" json:"book_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Book      Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteBook bookmarks a book for a user. At most one row per
// (user, book) pair.
type FavoriteBook struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_favorite_user_book" json:"user_id"`
	BookID    uint      `gorm:"index;uniqueIndex:idx_favorite_user_book" json:"book_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Book      Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnedBy reports whether the book is owned by the given user.
// A book whose owner was deleted is owned by nobody.
func (b *Book) OwnedBy(userID uint) bool {
	return b.OwnerID != nil && *b.OwnerID == userID && userID != 0
}

// AuthorNames joins the author names for display and admin listings.
func (b *Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

func (Author) TableName() string {
	return "authors"
}

func (Category) TableName() string {
	return "categories"
}

func (Book) TableName() string {
	return "books"
}

func (Chapter) TableName() string {
	return "chapters"
}

func (FavoriteBook) TableName() string {
	return "favorite_books"
}

func (User) TableName() string {
	return "users"
}

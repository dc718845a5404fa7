package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/catalog"
	"github.com/pkowalczyk/booktracker/internal/entities"
)

// ChapterStore defines the database operations the chapter pages need.
// Implemented by database/chapters.Repository.
type ChapterStore interface {
	Create(chapter *entities.Chapter) error
	GetByID(id uint) (*entities.Chapter, error)
	Update(chapter *entities.Chapter) error
	Delete(id uint) error
}

// chapterForm carries submitted values and validation errors back into
// the form template.
type chapterForm struct {
	ChapterTitle string
	Content      string
	FieldErrors  map[string]string
}

// ChaptersController handles chapter authoring. Every mutation goes
// through catalog.CanMutateChapter, so add, edit and delete all apply
// the same ownership rule.
type ChaptersController struct {
	store     ChapterStore
	books     BookStore
	sanitizer *bluemonday.Policy
}

func NewChaptersController(store ChapterStore, books BookStore) *ChaptersController {
	return &ChaptersController{
		store:     store,
		books:     books,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// AddChapterPage renders the chapter form for a book the actor owns.
// GET /books/:id/chapters/add
func (cc *ChaptersController) AddChapterPage(c *gin.Context) {
	book, ok := cc.lookupBookForMutation(c)
	if !ok {
		return
	}
	cc.renderChapterForm(c, http.StatusOK, book, chapterForm{}, false)
}

// AddChapter appends a chapter to a book the actor owns. A non-owner
// gets the explicit access-denied page, with the book for context.
// POST /books/:id/chapters/add
func (cc *ChaptersController) AddChapter(c *gin.Context) {
	book, ok := cc.lookupBookForMutation(c)
	if !ok {
		return
	}

	form := cc.bindChapterForm(c)
	if len(form.FieldErrors) > 0 {
		cc.renderChapterForm(c, http.StatusBadRequest, book, form, false)
		return
	}

	chapter := &entities.Chapter{
		BookID:  book.ID,
		Title:   form.ChapterTitle,
		Content: cc.sanitizer.Sanitize(form.Content),
	}
	if err := cc.store.Create(chapter); err != nil {
		renderInternalError(c, err, "create chapter")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", book.ID))
}

// EditChapterPage renders the edit form for an owned chapter.
// GET /chapters/:id/edit
func (cc *ChaptersController) EditChapterPage(c *gin.Context) {
	chapter, ok := cc.lookupChapterForMutation(c)
	if !ok {
		return
	}
	form := chapterForm{
		ChapterTitle: chapter.Title,
		Content:      chapter.Content,
	}
	cc.renderChapterForm(c, http.StatusOK, &chapter.Book, form, true)
}

// EditChapter applies changes to an owned chapter. Non-owners are
// silently redirected to the book's detail page.
// POST /chapters/:id/edit
func (cc *ChaptersController) EditChapter(c *gin.Context) {
	chapter, ok := cc.lookupChapterForMutation(c)
	if !ok {
		return
	}

	form := cc.bindChapterForm(c)
	if len(form.FieldErrors) > 0 {
		cc.renderChapterForm(c, http.StatusBadRequest, &chapter.Book, form, true)
		return
	}

	chapter.Title = form.ChapterTitle
	chapter.Content = cc.sanitizer.Sanitize(form.Content)
	if err := cc.store.Update(chapter); err != nil {
		renderInternalError(c, err, "update chapter")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", chapter.BookID))
}

// DeleteChapter handles both the confirmation page and the delete.
// GET|POST /chapters/:id/delete
func (cc *ChaptersController) DeleteChapter(c *gin.Context) {
	chapter, ok := cc.lookupChapterForMutation(c)
	if !ok {
		return
	}

	if c.Request.Method != http.MethodPost {
		c.HTML(http.StatusOK, "chapter_confirm_delete.html", templateData(c, gin.H{
			"Title":   "Delete chapter",
			"Chapter": chapter,
			"Book":    chapter.Book,
		}))
		return
	}

	if err := cc.store.Delete(chapter.ID); err != nil {
		renderInternalError(c, err, "delete chapter")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", chapter.BookID))
}

// lookupBookForMutation loads the target book of an add-chapter
// request and enforces ownership, rendering the denial page on
// failure.
func (cc *ChaptersController) lookupBookForMutation(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	book, err := cc.books.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
			return nil, false
		}
		renderInternalError(c, err, "chapter book lookup")
		return nil, false
	}

	if !catalog.CanMutateBook(GetUserID(c), book) {
		renderAccessDenied(c, fmt.Sprintf(
			"You cannot add a chapter to %q because you are not its owner.", book.Title))
		return nil, false
	}
	return book, true
}

// lookupChapterForMutation loads a chapter with its book and enforces
// ownership; non-owners are redirected to the book's detail page.
func (cc *ChaptersController) lookupChapterForMutation(c *gin.Context) (*entities.Chapter, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	chapter, err := cc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
			return nil, false
		}
		renderInternalError(c, err, "chapter lookup")
		return nil, false
	}

	if !catalog.CanMutateChapter(GetUserID(c), chapter) {
		c.Redirect(http.StatusFound, fmt.Sprintf("/books/%d", chapter.BookID))
		c.Abort()
		return nil, false
	}
	return chapter, true
}

func (cc *ChaptersController) bindChapterForm(c *gin.Context) chapterForm {
	form := chapterForm{
		ChapterTitle: c.PostForm("title"),
		Content:      c.PostForm("content"),
		FieldErrors:  map[string]string{},
	}
	if form.ChapterTitle == "" {
		form.FieldErrors["title"] = "This field is required."
	}
	if form.Content == "" {
		form.FieldErrors["content"] = "This field is required."
	}
	return form
}

func (cc *ChaptersController) renderChapterForm(c *gin.Context, status int, book *entities.Book, form chapterForm, editing bool) {
	title := "Add chapter"
	if editing {
		title = "Edit chapter"
	}
	c.HTML(status, "chapter_form.html", templateData(c, gin.H{
		"Title":   title,
		"Book":    book,
		"Form":    form,
		"Editing": editing,
	}))
}

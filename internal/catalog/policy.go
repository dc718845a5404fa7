// Package catalog holds the ownership policy: pure predicates deciding
// who may mutate which catalog records. Every mutating handler calls
// these instead of re-deriving the rule per route, so book and chapter
// mutations enforce exactly the same policy.
package catalog

import (
	"github.com/pkowalczyk/booktracker/internal/entities"
)

// AnonymousID is the actor id of an unauthenticated request.
const AnonymousID = uint(0)

// CanMutateBook reports whether the actor may edit or delete the book.
// Only the authenticated owner may; books whose owner was deleted
// (nil owner) cannot be mutated by anyone.
func CanMutateBook(actorID uint, book *entities.Book) bool {
	if actorID == AnonymousID || book == nil {
		return false
	}
	return book.OwnedBy(actorID)
}

// CanMutateChapter reports whether the actor may add, edit or delete a
// chapter. The rule is the book's rule: chapters belong to whoever
// owns the book. The chapter's Book must be loaded.
func CanMutateChapter(actorID uint, chapter *entities.Chapter) bool {
	if chapter == nil {
		return false
	}
	return CanMutateBook(actorID, &chapter.Book)
}

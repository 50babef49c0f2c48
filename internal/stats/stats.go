// Package stats computes summary statistics over a snapshot of blogs.
// All functions are pure: they never mutate their input and have no
// side effects, so callers may run them concurrently over the same
// snapshot without locking.
package stats

import "github.com/bloghub/bloghub/internal/model"

// Favorite is a display projection of the most-liked blog.
// It deliberately excludes the identifier and URL.
type Favorite struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// AuthorCount names the author with the most blogs.
type AuthorCount struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

// AuthorLikes names the author with the highest summed likes.
type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// TotalLikes returns the sum of likes across all blogs. Zero for an
// empty slice.
func TotalLikes(blogs []model.Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the strictly greatest likes.
// On a tie the first blog in input order wins. The second return value
// is false when blogs is empty.
func FavoriteBlog(blogs []model.Blog) (Favorite, bool) {
	if len(blogs) == 0 {
		return Favorite{}, false
	}

	favorite := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > favorite.Likes {
			favorite = b
		}
	}

	return Favorite{
		Title:  favorite.Title,
		Author: favorite.Author,
		Likes:  favorite.Likes,
	}, true
}

// authorGroup accumulates per-author totals while preserving the order
// in which authors were first observed.
type authorGroup struct {
	author string
	blogs  int
	likes  int
}

// groupByAuthor buckets blogs by exact author string, in first-appearance
// order. Ties in the ranking functions below resolve to the earlier group.
func groupByAuthor(blogs []model.Blog) []*authorGroup {
	groups := make([]*authorGroup, 0)
	index := make(map[string]*authorGroup)

	for _, b := range blogs {
		g, ok := index[b.Author]
		if !ok {
			g = &authorGroup{author: b.Author}
			index[b.Author] = g
			groups = append(groups, g)
		}
		g.blogs++
		g.likes += b.Likes
	}

	return groups
}

// MostBlogs returns the author with the most blogs. Ties resolve by
// first-appearance order of the author value in the input. The second
// return value is false when blogs is empty.
func MostBlogs(blogs []model.Blog) (AuthorCount, bool) {
	groups := groupByAuthor(blogs)
	if len(groups) == 0 {
		return AuthorCount{}, false
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.blogs > top.blogs {
			top = g
		}
	}

	return AuthorCount{Author: top.author, Blogs: top.blogs}, true
}

// MostLikes returns the author whose blogs have the highest summed
// likes. Same grouping and tie-break as MostBlogs. The second return
// value is false when blogs is empty.
func MostLikes(blogs []model.Blog) (AuthorLikes, bool) {
	groups := groupByAuthor(blogs)
	if len(groups) == 0 {
		return AuthorLikes{}, false
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.likes > top.likes {
			top = g
		}
	}

	return AuthorLikes{Author: top.author, Likes: top.likes}, true
}

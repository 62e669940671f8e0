// Package pagination holds page/pageSize state for list views. It has no network
// awareness: callers feed Offset and Limit into their own list params.
package pagination

const DefaultPageSize = 20

// PageSizeOptions are the page sizes offered to operators.
var PageSizeOptions = []int{10, 20, 50, 100}

type Options struct {
	InitialPage     int
	InitialPageSize int
}

// State is a value type; methods with pointer receivers mutate in place.
type State struct {
	page     int
	pageSize int
	initial  Options
}

func New(opts Options) State {
	if opts.InitialPage < 0 {
		opts.InitialPage = 0
	}
	if opts.InitialPageSize <= 0 {
		opts.InitialPageSize = DefaultPageSize
	}
	return State{page: opts.InitialPage, pageSize: opts.InitialPageSize, initial: opts}
}

func (s State) Page() int     { return s.page }
func (s State) PageSize() int { return s.pageSize }
func (s State) Limit() int    { return s.pageSize }
func (s State) Offset() int   { return s.page * s.pageSize }

// GoToPage moves to n, clamped to zero.
func (s *State) GoToPage(n int) {
	s.page = max(0, n)
}

func (s *State) NextPage() {
	s.page++
}

func (s *State) PrevPage() {
	s.page = max(0, s.page-1)
}

// ChangePageSize always returns to the first page so the offset stays in range.
func (s *State) ChangePageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
	s.page = 0
}

func (s *State) Reset() {
	s.page = s.initial.InitialPage
	s.pageSize = s.initial.InitialPageSize
}

// TotalPages is ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func (s State) TotalPages(total int) int {
	return TotalPages(total, s.pageSize)
}

// HasNext reports whether another page exists after the current one.
func (s State) HasNext(total int) bool {
	return s.Offset()+s.pageSize < total
}

// IsPageSizeOption reports whether n is one of PageSizeOptions.
func IsPageSizeOption(n int) bool {
	for _, o := range PageSizeOptions {
		if o == n {
			return true
		}
	}
	return false
}

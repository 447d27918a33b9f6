package schema

import (
	"fmt"
	"strings"

	"github.com/suncoast/sitegen/internal/model"
)

// ValidateTrail checks that crumbs form a root-to-leaf path: the first href
// is the site root, every href is a strict path prefix of the next one and
// the last href is route. Hrefs are compared after CleanRoute, so /roofing
// and /roofing/ name the same hop.
func ValidateTrail(crumbs []model.BreadcrumbItem, route string) error {
	if len(crumbs) == 0 {
		return nil
	}
	var prev string
	for i, c := range crumbs {
		if err := required("BreadcrumbList.item", field{"name", c.Name}, field{"item", c.Href}); err != nil {
			return fmt.Errorf("%w (position %d)", err, i+1)
		}
		cur := model.CleanRoute(c.Href)
		if i == 0 {
			if cur != "/" {
				return fmt.Errorf("%w: trail starts at %q, not the site root", ErrBreadcrumbPath, c.Href)
			}
		} else if !IsPathPrefix(prev, cur) {
			return fmt.Errorf("%w: %q is not an ancestor of %q", ErrBreadcrumbPath, crumbs[i-1].Href, c.Href)
		}
		prev = cur
	}
	if want := model.CleanRoute(route); prev != want {
		return fmt.Errorf("%w: trail ends at %q, page route is %q", ErrBreadcrumbPath, crumbs[len(crumbs)-1].Href, route)
	}
	return nil
}

// IsPathPrefix reports whether parent is a strict ancestor of child on
// segment boundaries, so /services/ is an ancestor of /services/roofing/
// but /serv is not.
func IsPathPrefix(parent, child string) bool {
	if parent == child || !strings.HasPrefix(child, parent) {
		return false
	}
	if strings.HasSuffix(parent, "/") {
		return true
	}
	return child[len(parent)] == '/'
}

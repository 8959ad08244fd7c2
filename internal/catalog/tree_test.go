package catalog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/skillz-hq/skillz/internal/catalog"
)

func node(id int64, name string, parentID *int64) *catalog.Category {
	return &catalog.Category{ID: id, Name: name, ParentID: parentID}
}

var _ = Describe("Catalog Tree", func() {
	Describe("BuildForest", func() {
		It("returns an empty forest for no input", func() {
			Expect(catalog.BuildForest(nil)).To(BeEmpty())
		})

		It("assembles nested children under their parents", func() {
			flat := []*catalog.Category{
				node(1, "Backend", nil),
				node(2, "Languages", ptr(1)),
				node(3, "Databases", ptr(1)),
				node(4, "Frontend", nil),
			}

			forest := catalog.BuildForest(flat)

			Expect(forest).To(HaveLen(2))
			Expect(forest[0].Name).To(Equal("Backend"))
			Expect(forest[0].Children).To(HaveLen(2))
			Expect(forest[0].Children[0].Name).To(Equal("Languages"))
			Expect(forest[1].Name).To(Equal("Frontend"))
			Expect(forest[1].Children).To(BeEmpty())
		})

		It("promotes an orphaned node to a root instead of dropping it", func() {
			flat := []*catalog.Category{
				node(1, "Backend", nil),
				node(2, "Orphan", ptr(99)),
			}

			forest := catalog.BuildForest(flat)

			Expect(forest).To(HaveLen(2))
		})
	})

	Describe("SubtreeIDs", func() {
		flat := []*catalog.Category{
			node(1, "Backend", nil),
			node(2, "Languages", ptr(1)),
			node(3, "Compiled", ptr(2)),
			node(4, "Databases", ptr(1)),
			node(5, "Frontend", nil),
		}

		It("reports a missing root", func() {
			_, ok := catalog.SubtreeIDs(flat, 42)
			Expect(ok).To(BeFalse())
		})

		It("returns every descendant with children before their parent", func() {
			ids, ok := catalog.SubtreeIDs(flat, 1)

			Expect(ok).To(BeTrue())
			Expect(ids).To(ConsistOf(int64(1), int64(2), int64(3), int64(4)))

			pos := make(map[int64]int, len(ids))
			for i, id := range ids {
				pos[id] = i
			}
			Expect(pos[3]).To(BeNumerically("<", pos[2]))
			Expect(pos[2]).To(BeNumerically("<", pos[1]))
			Expect(pos[4]).To(BeNumerically("<", pos[1]))
		})

		It("returns just the node itself for a leaf", func() {
			ids, ok := catalog.SubtreeIDs(flat, 5)

			Expect(ok).To(BeTrue())
			Expect(ids).To(Equal([]int64{5}))
		})
	})

	Describe("PathSegments", func() {
		It("walks from the node to its root and reports the names root-first", func() {
			flat := []*catalog.Category{
				node(1, "Backend", nil),
				node(2, "Languages", ptr(1)),
				node(3, "Compiled", ptr(2)),
			}

			Expect(catalog.PathSegments(flat, 3)).To(Equal([]string{"Backend", "Languages", "Compiled"}))
			Expect(catalog.PathSegments(flat, 1)).To(Equal([]string{"Backend"}))
		})

		It("returns nothing for an unknown id", func() {
			Expect(catalog.PathSegments(nil, 1)).To(BeEmpty())
		})

		It("terminates on a cyclic parent chain", func() {
			flat := []*catalog.Category{
				node(1, "A", ptr(2)),
				node(2, "B", ptr(1)),
			}

			segments := catalog.PathSegments(flat, 1)

			Expect(segments).To(HaveLen(2))
		})
	})
})

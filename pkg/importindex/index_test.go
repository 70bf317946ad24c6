package importindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/importindex"
)

func fact(target depmodel.ModuleName, specs ...string) depmodel.ImportFact {
	return depmodel.ImportFact{Imported: target, Specifiers: specs}
}

func sampleFiles() []depmodel.FactFile {
	return []depmodel.FactFile{
		{Name: "A.imports", Module: "A", Facts: []depmodel.ImportFact{
			fact("X1", "foo"),
			fact("Data.Orphans"),
		}},
		{Name: "B.imports", Module: "B", Facts: []depmodel.ImportFact{
			fact("X1", "bar"),
			{Imported: "Prelude", Everything: true},
		}},
		{Name: "Other.imports", Module: "Other", Facts: []depmodel.ImportFact{
			fact("Y1", "baz"),
		}},
	}
}

func TestImported_CollectsAcrossUnitModules(t *testing.T) {
	t.Parallel()

	idx := importindex.Build(sampleFiles())
	got := idx.Imported([]depmodel.ModuleName{"A", "B"}, false)

	assert.Equal(t, depmodel.NewModuleSet("X1", "Data.Orphans", "Prelude"), got)
}

func TestImported_IgnoreEmptyImports(t *testing.T) {
	t.Parallel()

	idx := importindex.Build(sampleFiles())
	got := idx.Imported([]depmodel.ModuleName{"A", "B"}, true)

	assert.False(t, got.Has("Data.Orphans"))
	assert.True(t, got.Has("Prelude"), "import without a list is not empty")
	assert.True(t, got.Has("X1"))
}

func TestImported_ModulesOutsideUnitIgnored(t *testing.T) {
	t.Parallel()

	idx := importindex.Build(sampleFiles())

	assert.False(t, idx.Imported([]depmodel.ModuleName{"A"}, false).Has("Y1"))
	assert.True(t, idx.Imported([]depmodel.ModuleName{"Other"}, false).Has("Y1"))
}

func TestMissing(t *testing.T) {
	t.Parallel()

	idx := importindex.Build(sampleFiles())

	assert.Equal(t, []depmodel.ModuleName{"C", "Main"}, idx.Missing([]depmodel.ModuleName{"Main", "A", "C"}))
	assert.Empty(t, idx.Missing([]depmodel.ModuleName{"A", "B"}))
	assert.True(t, idx.Covered().Has("Other"))
}

func TestImported_FileWithoutFactsStillCovered(t *testing.T) {
	t.Parallel()

	idx := importindex.Build([]depmodel.FactFile{{Name: "B.imports", Module: "B"}})

	assert.Empty(t, idx.Imported([]depmodel.ModuleName{"B"}, false))
	assert.Empty(t, idx.Missing([]depmodel.ModuleName{"B"}))
}

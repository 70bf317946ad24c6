package importfacts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/importfacts"
)

func TestParse_MinimalImports(t *testing.T) {
	t.Parallel()

	src := `import Control.Monad ( forM_, when )
import qualified Data.Map.Strict as M ( Map, fromList, (!) )
import Data.Maybe ( Maybe(..), fromMaybe )
import Data.Orphans ( )
import {-# SOURCE #-} Foo.Types ( Foo )
import Prelude
import Data.List
    ( foldl',
      sortOn )
`

	facts, err := importfacts.Parse("App.Main", src)
	require.NoError(t, err)
	require.Len(t, facts, 7)

	assert.Equal(t, depmodel.ImportFact{
		Importer:   "App.Main",
		Imported:   "Control.Monad",
		Specifiers: []string{"forM_", "when"},
		Line:       1,
	}, facts[0])

	assert.Equal(t, depmodel.ModuleName("Data.Map.Strict"), facts[1].Imported)
	assert.True(t, facts[1].Qualified)
	assert.Equal(t, depmodel.ModuleName("M"), facts[1].Alias)
	assert.Equal(t, []string{"Map", "fromList", "(!)"}, facts[1].Specifiers)

	assert.Equal(t, []string{"Maybe(..)", "fromMaybe"}, facts[2].Specifiers)

	assert.Equal(t, depmodel.ModuleName("Data.Orphans"), facts[3].Imported)
	assert.True(t, facts[3].IsEmpty())

	assert.Equal(t, depmodel.ModuleName("Foo.Types"), facts[4].Imported)

	assert.True(t, facts[5].Everything)
	assert.False(t, facts[5].IsEmpty())

	assert.Equal(t, []string{"foldl'", "sortOn"}, facts[6].Specifiers)
	assert.Equal(t, 7, facts[6].Line)
}

func TestParse_QualifiedPostAndHiding(t *testing.T) {
	t.Parallel()

	src := `import Data.Text qualified as T ( pack )
import Prelude hiding ( lookup )
import safe "base" Data.Bits ( (.&.) )
`

	facts, err := importfacts.Parse("Lib", src)
	require.NoError(t, err)
	require.Len(t, facts, 3)

	assert.True(t, facts[0].Qualified)
	assert.Equal(t, depmodel.ModuleName("T"), facts[0].Alias)

	assert.True(t, facts[1].Hiding)
	assert.False(t, facts[1].IsEmpty())

	assert.Equal(t, depmodel.ModuleName("Data.Bits"), facts[2].Imported)
	assert.Equal(t, []string{"(.&.)"}, facts[2].Specifiers)
}

func TestParse_CommentsAndOperators(t *testing.T) {
	t.Parallel()

	src := `-- generated summary
{- block {- nested -} comment -}
import Control.Arrow ( (>>>), (-->) ) -- trailing
`

	facts, err := importfacts.Parse("Lib", src)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, []string{"(>>>)", "(-->)"}, facts[0].Specifiers)
	assert.Equal(t, 3, facts[0].Line)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	facts, err := importfacts.Parse("Lib", "\n  \n")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		line int
	}{
		{"not an import", "module Foo where\n", 1},
		{"lowercase module", "import data.Map\n", 1},
		{"unterminated list", "import Data.Map (\n  Map,\n", 1},
		{"trailing garbage", "import Data.Map ( Map ) where\n", 1},
		{"hiding without list", "import Data.Map hiding\n", 1},
		{"unterminated comment", "{- open\nimport Data.Map\n", 1},
		{"second line", "import A ( a )\nimport 3\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := importfacts.Parse("Lib", tt.src)
			require.Error(t, err)

			var pe *importfacts.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestValidModuleName(t *testing.T) {
	t.Parallel()

	assert.True(t, importfacts.ValidModuleName("Data.Map.Strict"))
	assert.True(t, importfacts.ValidModuleName("Main"))
	assert.True(t, importfacts.ValidModuleName("Foo_Bar'"))
	assert.False(t, importfacts.ValidModuleName(""))
	assert.False(t, importfacts.ValidModuleName("Data..Map"))
	assert.False(t, importfacts.ValidModuleName("data.Map"))
	assert.False(t, importfacts.ValidModuleName("Data.Map-Strict"))
}

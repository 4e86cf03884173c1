package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap/pkg/filter"
)

func TestFilterFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want filter.Criteria
	}{
		{
			name: "defaults",
			want: filter.Default(),
		},
		{
			name: "everything",
			args: []string{"-s", "civic", "--make", "Honda", "--type", "Sedan",
				"--year-min", "2019", "--year-max", "2022", "--price-min", "0",
				"--price-max", "abc", "--sort", "PRICE-ASC", "-f"},
			want: filter.Criteria{
				Query: "civic", Make: "Honda", Type: "Sedan",
				YearMin: filter.At(2019), YearMax: filter.At(2022),
				PriceMin: filter.At(0), PriceMax: filter.Unbounded(),
				Sort: filter.SortPriceAsc, FavoritesOnly: true,
			},
		},
		{
			name: "unknown sort",
			args: []string{"--sort", "cheapest"},
			want: filter.Default(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "list"}
			flags := AddFilterFlags(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))
			assert.Equal(t, tt.want, flags.Criteria())
		})
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/composables"
)

type dictSeedFile struct {
	Dicts []dictSeed `yaml:"dicts"`
}

type dictSeed struct {
	DictID   string      `yaml:"dict_id"`
	DictName string      `yaml:"dict_name"`
	DictMark string      `yaml:"dict_mark"`
	Weight   int32       `yaml:"weight"`
	Values   []valueSeed `yaml:"values"`
}

type valueSeed struct {
	ValueID   string `yaml:"value_id"`
	ValueName string `yaml:"value_name"`
	ValueMark string `yaml:"value_mark"`
	Weight    int32  `yaml:"weight"`
}

// toDomain validates a seed entry. Seeded dictionaries ship with the system and are read-only.
func (s dictSeed) toDomain() (*dict.Dict, []*dict.Value, error) {
	if strings.TrimSpace(s.DictID) == "" || strings.TrimSpace(s.DictName) == "" {
		return nil, nil, errors.New("dict_id and dict_name are required")
	}
	d := &dict.Dict{
		DictID:   strings.TrimSpace(s.DictID),
		DictName: s.DictName,
		DictMark: s.DictMark,
		Weight:   s.Weight,
		DictType: dict.TypeDefault,
	}
	values := make([]*dict.Value, 0, len(s.Values))
	seen := map[string]bool{}
	for _, v := range s.Values {
		id := strings.TrimSpace(v.ValueID)
		if id == "" || strings.TrimSpace(v.ValueName) == "" {
			return nil, nil, errors.Errorf("dict %s: value_id and value_name are required", d.DictID)
		}
		if seen[id] {
			return nil, nil, errors.Errorf("dict %s: duplicate value_id %s", d.DictID, id)
		}
		seen[id] = true
		values = append(values, &dict.Value{
			DictID:    d.DictID,
			ValueID:   id,
			ValueName: v.ValueName,
			ValueMark: v.ValueMark,
			Weight:    v.Weight,
			DictType:  dict.TypeDefault,
		})
	}
	return d, values, nil
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install reference data",
	}
	cmd.AddCommand(newSeedDictsCmd())
	return cmd
}

func newSeedDictsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "dicts",
		Short: "Install the dictionaries of a YAML seed file, skipping existing entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed dictSeedFile
			if err := readYAML(file, &seed); err != nil {
				return err
			}
			type entry struct {
				dict   *dict.Dict
				values []*dict.Value
			}
			entries := make([]entry, 0, len(seed.Dicts))
			for i, s := range seed.Dicts {
				d, values, err := s.toDomain()
				if err != nil {
					return withCode(exitValidation, errors.Wrapf(err, "dicts[%d]", i))
				}
				entries = append(entries, entry{dict: d, values: values})
			}

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			svc := services.NewDictService(persistence.NewDictRepository(), persistence.NewDictValueRepository())
			total := 0
			for _, e := range entries {
				n, err := svc.Seed(ctx, e.dict, e.values)
				if err != nil {
					return withCode(exitDB, errors.Wrapf(err, "seed dict %s", e.dict.DictID))
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows from %d dictionaries\n", total, len(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the YAML seed file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
)

type DescriptionKind string

const (
	KindShort DescriptionKind = "short"
	KindLong  DescriptionKind = "long"
)

// Catalog holds the mask requirement prompts a round pool is drawn from.
type Catalog struct {
	Short []string
	Long  []string
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Short: lo.Uniq(defaultShort),
		Long:  lo.Uniq(defaultLong),
	}
}

// Descriptions returns the list matching the room setting.
func (c *Catalog) Descriptions(long bool) []string {
	if long {
		return c.Long
	}
	return c.Short
}

// MaxPool is the largest duplicate-free pool either list can produce.
func (c *Catalog) MaxPool(long bool) int {
	return len(c.Descriptions(long))
}

// ReadCsvFile loads a catalog from "description,kind" records. Records with
// an unknown kind are skipped; a kind left empty counts as short.
func ReadCsvFile(filePath string) (*Catalog, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read descriptions file %s: %w", filePath, err)
	}
	defer f.Close()

	return ReadCsv(f)
}

func ReadCsv(r io.Reader) (*Catalog, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse descriptions csv: %w", err)
	}

	catalog := &Catalog{}
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		text := strings.TrimSpace(record[0])
		if text == "" {
			continue
		}
		kind := KindShort
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			kind = DescriptionKind(strings.ToLower(strings.TrimSpace(record[1])))
		}
		switch kind {
		case KindShort:
			catalog.Short = append(catalog.Short, text)
		case KindLong:
			catalog.Long = append(catalog.Long, text)
		}
	}

	catalog.Short = lo.Uniq(catalog.Short)
	catalog.Long = lo.Uniq(catalog.Long)
	if len(catalog.Short) == 0 || len(catalog.Long) == 0 {
		return nil, fmt.Errorf("descriptions csv needs at least one short and one long entry")
	}
	return catalog, nil
}

var defaultShort = []string{
	"Horns",
	"Feathers",
	"Tears",
	"A third eye",
	"Stripes",
	"Polka dots",
	"A moustache",
	"Stitches",
	"Flames",
	"Stars",
	"A crack",
	"Fangs",
	"Flowers",
	"Lightning",
	"A crown",
	"Spirals",
	"Gears",
	"Leaves",
	"A beak",
	"Freckles",
	"Teardrops of gold",
	"Zigzags",
	"Antlers",
	"A smile",
	"A frown",
	"Closed eyes",
	"Hearts",
	"A keyhole",
	"Scales",
	"Moons",
}

var defaultLong = []string{
	"A mask covered in patterns that repeat over and over.",
	"A dark mask that shows no emotion at all.",
	"A bright mask bursting with colour and joy.",
	"A mask that looks built by a machine.",
	"A mask with a crack running across it.",
	"A mask as calm and quiet as the night.",
	"A mask that seems to glow faintly.",
	"A mask shaped by leaves, branches and the outdoors.",
	"A minimalist mask with almost no details.",
	"A serious mask with empty eyes.",
	"A childish mask with exaggerated features.",
	"A mask painted in colours that clash.",
	"A sly mask that looks like it is planning something.",
	"A mask that seems to be moving or flowing.",
	"A mask whose expression changes depending on the angle.",
	"A mask covered in strange symbols.",
	"A light, soft, decorative mask.",
	"A mask painted with bold, careless strokes.",
	"An old mask worn down by time.",
	"A mask full of scribbles and doodles.",
	"A perfectly balanced, symmetric mask.",
	"A mask that looks friendly from afar but odd up close.",
	"A mask with uneven shapes that still look deliberate.",
	"A cold, distant mask.",
	"A warm, welcoming mask.",
	"A mask that looks unfinished.",
	"A mask with harsh contrast between light and dark.",
	"An emotional mask with no clear face.",
	"A simple mask that is still very expressive.",
	"A festive mask that looks a little tired.",
	"A mask that clearly belongs to someone special.",
	"A ceremonial mask for a serious occasion.",
	"A playful mask on the edge of chaos.",
	"A quiet mask that is always watching.",
}

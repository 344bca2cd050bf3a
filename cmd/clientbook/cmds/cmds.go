package cmds

import (
	"bytes"
	"clientbook/internal/flow"
	"clientbook/internal/store"
	"clientbook/internal/types"
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
)

// LegacyKey is the storage key the browser version of the client book kept its array under.
const LegacyKey = "crm_clients"

// ClientStore is the part of store.Store the commands use.
type ClientStore interface {
	LoadAll(ctx context.Context) ([]types.ClientRecord, error)
	Create(ctx context.Context, fields types.ClientFields) (types.ClientRecord, error)
}

// ImportYAML creates one client per entry of a YAML list. Ids in the file are ignored.
// Every entry is validated before anything is written, so a bad file imports nothing.
func ImportYAML(ctx context.Context, st ClientStore, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var records []types.ClientRecord
	if err := yaml.Unmarshal(b, &records); err != nil {
		return 0, types.Err(types.ErrValidation, err, "parse %s", path)
	}
	return createAll(ctx, st, records)
}

// ImportLegacy reads a dump of the browser client book. The file holds either the bare
// array or an object keyed by LegacyKey whose value is the array or its JSON string form.
// Localized grade and contact labels are mapped, and every client gets a new id.
func ImportLegacy(ctx context.Context, st ClientStore, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	records, err := decodeLegacy(b)
	if err != nil {
		return 0, types.Err(types.ErrValidation, err, "parse %s", path)
	}
	return createAll(ctx, st, records)
}

func decodeLegacy(b []byte) ([]types.ClientRecord, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return store.Decode(b)
	}
	var dump map[string]json.RawMessage
	if err := json.Unmarshal(b, &dump); err != nil {
		return nil, err
	}
	raw, ok := dump[LegacyKey]
	if !ok {
		return nil, fmt.Errorf("no %q key in dump", LegacyKey)
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return store.Decode([]byte(encoded))
	}
	return store.Decode(raw)
}

func createAll(ctx context.Context, st ClientStore, records []types.ClientRecord) (int, error) {
	for i, r := range records {
		if err := r.Normalize().Validate(); err != nil {
			return 0, fmt.Errorf("entry %d (%s): %w", i+1, r.Name, err)
		}
	}
	for i, r := range records {
		c, err := st.Create(ctx, r.ClientFields)
		if err != nil {
			return i, err
		}
		log.WithFields(log.Fields{"clientID": c.ID, "from": r.ID}).Debug("client imported")
	}
	return len(records), nil
}

// Export writes the whole collection as a YAML list ImportYAML can read back.
func Export(ctx context.Context, st ClientStore, w io.Writer) error {
	clients, err := st.LoadAll(ctx)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(clients)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func PrintList(ctx context.Context, st ClientStore, w io.Writer, filter string) error {
	clients, err := st.LoadAll(ctx)
	if err != nil {
		return err
	}
	if filter != "" {
		f, err := flow.CompileFilter(filter)
		if err != nil {
			return err
		}
		if clients, err = f.Apply(clients); err != nil {
			return err
		}
	}
	return printJSON(w, clients)
}

// PrintSchedule prints the visits planned for month, or for the month of now when empty.
func PrintSchedule(ctx context.Context, st ClientStore, w io.Writer, month string, now time.Time) error {
	month, err := flow.MonthOrCurrent(month, now)
	if err != nil {
		return err
	}
	clients, err := st.LoadAll(ctx)
	if err != nil {
		return err
	}
	entries := flow.ScheduleFor(clients, month)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s: %d planned\n", month, len(entries))
	fmt.Fprintln(tw, "DATE\tNAME\tPHONE\tGRADE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.NextContact, e.Name, e.Phone, e.Grade)
	}
	return tw.Flush()
}

func PrintAnalytics(ctx context.Context, st ClientStore, w io.Writer, now time.Time) error {
	clients, err := st.LoadAll(ctx)
	if err != nil {
		return err
	}
	return printJSON(w, flow.ComputeAnalytics(clients, now))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

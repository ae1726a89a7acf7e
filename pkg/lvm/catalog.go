package lvm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snapfriend/snapfriend/pkg/runner"
)

// lvsArgv asks lvs for group, name and tags of every logical volume,
// most recently created first. Newer lvm2 releases have a json_std report
// format; plain json is the one available everywhere.
var lvsArgv = []string{
	"lvs",
	"--sort", "-lv_time",
	"--options", "vg_name,lv_name,lv_tags",
	"--reportformat", "json",
}

// CatalogError reports that the volume catalog could not be read or parsed.
// It aborts the current connection only; the daemon keeps serving.
type CatalogError struct {
	Reason string
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog unavailable: %s", e.Reason)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// lvsReport mirrors the lvs --reportformat json output structure.
type lvsReport struct {
	Report []struct {
		LV []struct {
			VGName string `json:"vg_name"`
			LVName string `json:"lv_name"`
			LVTags string `json:"lv_tags"`
		} `json:"lv"`
	} `json:"report"`
}

// LVMCatalog reads logical volumes by invoking lvs.
type LVMCatalog struct {
	runner runner.Runner
}

// NewLVMCatalog creates a catalog reader backed by the lvs command
func NewLVMCatalog(r runner.Runner) *LVMCatalog {
	return &LVMCatalog{runner: r}
}

// Catalog invokes lvs and parses its JSON report into volume records.
func (c *LVMCatalog) Catalog(ctx context.Context) ([]Volume, error) {
	out, err := c.runner.Run(ctx, lvsArgv...)
	if err != nil {
		return nil, &CatalogError{Reason: "lvs failed", Err: err}
	}

	var report lvsReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		return nil, &CatalogError{Reason: "failed to parse lvs output as json", Err: err}
	}
	if len(report.Report) == 0 {
		return nil, &CatalogError{Reason: "unexpected structure from lvs: no report"}
	}

	records := report.Report[0].LV
	volumes := make([]Volume, 0, len(records))
	for _, lv := range records {
		volumes = append(volumes, Volume{
			Group: lv.VGName,
			Name:  lv.LVName,
			Tags:  splitTags(lv.LVTags),
		})
	}

	return volumes, nil
}

// splitTags splits the comma-delimited lv_tags field. An untagged volume is
// reported as an empty string, which must not become a single empty tag.
func splitTags(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, ",")
}

// FindByTag returns the first (most recent) volume carrying the exact tag.
func FindByTag(catalog []Volume, tag string) (Volume, bool) {
	for _, v := range catalog {
		if v.HasTag(tag) {
			return v, true
		}
	}
	return Volume{}, false
}

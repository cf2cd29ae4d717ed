//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// influxReader reads back what the Influx sink wrote during a test.
type influxReader struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

func newInfluxReader(url, org, bucket, token string) *influxReader {
	c := influxdb2.NewClient(url, token)
	return &influxReader{org: org, bucket: bucket, client: c, query: c.QueryAPI(org)}
}

// ensureBucket creates the organisation and bucket when the container did
// not provision them.
func (r *influxReader) ensureBucket(ctx context.Context) error {
	org, err := r.client.OrganizationsAPI().FindOrganizationByName(ctx, r.org)
	if err != nil || org == nil {
		if org, err = r.client.OrganizationsAPI().CreateOrganizationWithName(ctx, r.org); err != nil {
			return fmt.Errorf("create org: %w", err)
		}
	}
	if b, err := r.client.BucketsAPI().FindBucketByName(ctx, r.bucket); err == nil && b != nil {
		return nil
	}
	if _, err := r.client.BucketsAPI().CreateBucketWithName(ctx, org, r.bucket); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (r *influxReader) run(ctx context.Context, window time.Duration, filter string, each func(*api.QueryTableResult)) error {
	flux := fmt.Sprintf(`from(bucket:%q) |> range(start: -%s) |> filter(fn: (r) => %s)`, r.bucket, window, filter)
	res, err := r.query.Query(ctx, flux)
	if err != nil {
		return err
	}
	defer res.Close()
	for res.Next() {
		each(res)
	}
	return res.Err()
}

// countPoints returns how many values of measurement were written during
// the last window.
func (r *influxReader) countPoints(ctx context.Context, measurement string, window time.Duration) (int, error) {
	n := 0
	err := r.run(ctx, window, fmt.Sprintf(`r._measurement == %q`, measurement), func(*api.QueryTableResult) { n++ })
	return n, err
}

// playerTotals returns the total minutes written for each player of a solve.
func (r *influxReader) playerTotals(ctx context.Context, solveID string, window time.Duration) (map[string]int, error) {
	out := map[string]int{}
	filter := fmt.Sprintf(`r._measurement == "player_minutes" and r.solve_id == %q and r._field == "total"`, solveID)
	err := r.run(ctx, window, filter, func(res *api.QueryTableResult) {
		rec := res.Record()
		player, _ := rec.ValueByKey("player").(string)
		if v, ok := rec.Value().(int64); ok {
			out[player] = int(v)
		}
	})
	return out, err
}

func (r *influxReader) Close() { r.client.Close() }

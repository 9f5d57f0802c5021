package sparekeys

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalekundert/sparekeys/pkg/pipeline"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

func resultWithPublish(status pipeline.Status, kinds ...plugins.OutcomeKind) *pipeline.Result {
	result := &pipeline.Result{
		Status:       status,
		WorkspaceDir: "/data/testhost",
		Outcomes:     make(map[plugins.Stage][]plugins.Outcome),
	}
	for _, kind := range kinds {
		result.Outcomes[plugins.StagePublish] = append(result.Outcomes[plugins.StagePublish],
			plugins.Outcome{Stage: plugins.StagePublish, Plugin: "scp", Kind: kind})
	}
	return result
}

func TestPublishWarning(t *testing.T) {
	// A delivered archive needs no warning.
	published := resultWithPublish(pipeline.StatusSuccess, plugins.OutcomeSuccess)
	assert.Empty(t, publishWarning(published))

	// No publishers configured at all.
	unpublished := resultWithPublish(pipeline.StatusSuccess)
	assert.Contains(t, publishWarning(unpublished), "/data/testhost")

	// Publishers configured, but every invocation skipped.
	skipped := resultWithPublish(pipeline.StatusDegraded, plugins.OutcomeSkipped)
	assert.Contains(t, publishWarning(skipped), "/data/testhost")

	// One delivery is enough, even alongside a skip.
	partial := resultWithPublish(pipeline.StatusDegraded, plugins.OutcomeSkipped, plugins.OutcomeSuccess)
	assert.Empty(t, publishWarning(partial))

	// Aborted runs report their failure instead.
	aborted := resultWithPublish(pipeline.StatusAborted)
	assert.Empty(t, publishWarning(aborted))
}

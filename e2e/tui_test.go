//go:build e2e && unix

package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftdesk/internal/domain"
)

func seedCallbacks(tf *TUITestFramework) {
	tf.Backend.Seed("callbacks",
		domain.Item{"id": "1", "customer_name": "Acme Towers", "status": "PENDING", "scheduled_date": "2026-03-01"},
		domain.Item{"id": "2", "customer_name": "Bharat Plaza", "status": "COMPLETED", "scheduled_date": "2026-02-01"},
	)
}

func TestTUIRefusesWithoutSession(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	out, err := tf.Run("tui")
	require.Error(t, err)
	assert.Contains(t, out, "liftdesk login")
}

func TestTUIShowsCollectionAndQuits(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	seedCallbacks(tf)
	require.NoError(t, tf.Login())

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should render the first frame")
	require.True(t, tf.SeePlain("Acme Towers"))
	require.True(t, tf.SeePlain("Bharat Plaza"))

	require.NoError(t, tf.Quit())
	require.NoError(t, tf.WaitExit(2*time.Second))
}

func TestTUICtrlCExits(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	require.NoError(t, tf.Login())

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.SendKeys(KeyCtrlC))
	require.NoError(t, tf.WaitExit(2*time.Second))
}

func TestTUISearchThenDelete(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	seedCallbacks(tf)
	require.NoError(t, tf.Login())

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())
	require.True(t, tf.SeePlain("Bharat Plaza"))

	require.NoError(t, tf.SendKeys("/"))
	require.NoError(t, tf.Type("bha"))
	require.NoError(t, tf.SendKeys(KeyEsc))
	require.True(t, tf.SeePlain("1/2"), "search should narrow to one row")

	require.NoError(t, tf.SendKeys("d"))
	require.True(t, tf.SeePlain("Delete CallBack #2?"))
	require.NoError(t, tf.SendKeys("y"))
	require.True(t, tf.SeePlain("Deleted #2"))

	assert.Eventually(t, func() bool { return len(tf.Backend.Items("callbacks")) == 1 }, 2*time.Second, 25*time.Millisecond)
}

func TestTUISwitchesScreens(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()
	tf.Backend.Seed("customers", domain.Item{"id": "9", "name": "Cosmos Mall", "amc_amount": "45000"})
	require.NoError(t, tf.Login())

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.SendKeys("3"))
	require.True(t, tf.SeePlain("Cosmos Mall"))
	require.True(t, tf.SeePlain("45,000"))
}

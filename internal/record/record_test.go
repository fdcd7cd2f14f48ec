package record_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/archquiz/internal/db"
	"github.com/mind-engage/archquiz/internal/record"
)

var taken = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func TestCookieWriterRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	w := record.CookieWriter{W: rec}
	require.NoError(t, w.Write(context.Background(), record.Record{Score: 11, Date: taken}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	require.Equal(t, "11", byName[record.KeyScore].Value)
	require.Equal(t, "2026-03-14T09:26:53.589Z", byName[record.KeyDate].Value)
	require.Equal(t, 365*24*60*60, byName[record.KeyDate].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	got, ok := record.FromRequest(req)
	require.True(t, ok)
	require.Equal(t, 11, got.Score)
	require.True(t, taken.Equal(got.Date))
}

func TestFromRequestIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: record.KeyScore, Value: "lots"})
	req.AddCookie(&http.Cookie{Name: record.KeyDate, Value: "yesterday"})
	_, ok := record.FromRequest(req)
	require.False(t, ok)
}

func TestTeeKeepsWritingAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	var reached bool
	w := record.Tee(
		record.WriterFunc(func(context.Context, record.Record) error { return boom }),
		nil,
		record.WriterFunc(func(context.Context, record.Record) error { reached = true; return nil }),
	)
	err := w.Write(context.Background(), record.Record{})
	require.ErrorIs(t, err, boom)
	require.True(t, reached)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := taken
	st := record.NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, record.StoreWriter{Store: st, Scope: "guest|a"}.Write(ctx, record.Record{Score: 7, Date: taken}))
	got, ok, err := record.Latest(ctx, st, "guest|a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 7, got.Score)

	_, ok, err = record.Latest(ctx, st, "guest|b")
	require.NoError(t, err)
	require.False(t, ok)

	now = taken.Add(record.TTL)
	_, ok, err = record.Latest(ctx, st, "guest|a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "records.db")
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	st := record.NewSQLStore(dbh)
	w := record.StoreWriter{Store: st, Scope: "guest|a"}
	require.NoError(t, w.Write(ctx, record.Record{Score: 3, Date: taken}))
	require.NoError(t, w.Write(ctx, record.Record{Score: 9, Date: taken.Add(time.Hour)}))

	got, ok, err := record.Latest(ctx, st, "guest|a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 9, got.Score)
	require.True(t, taken.Add(time.Hour).Equal(got.Date))

	require.NoError(t, st.Put(ctx, "guest|a", "stale", "x", -time.Second))
	_, ok, err = st.Get(ctx, "guest|a", "stale")
	require.NoError(t, err)
	require.False(t, ok)

	n, err := st.Purge(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	st := record.NewRedisStore(record.NewRedisClient(mr.Addr(), "", 0))
	ctx := context.Background()

	require.NoError(t, record.StoreWriter{Store: st, Scope: "guest|a"}.Write(ctx, record.Record{Score: 12, Date: taken}))
	require.True(t, mr.Exists("record:guest|a:examScore"))
	require.Equal(t, record.TTL, mr.TTL("record:guest|a:examDate"))

	got, ok, err := record.Latest(ctx, st, "guest|a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 12, got.Score)

	mr.FastForward(record.TTL)
	_, ok, err = record.Latest(ctx, st, "guest|a")
	require.NoError(t, err)
	require.False(t, ok)
}

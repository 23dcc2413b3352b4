package secret

import (
	"errors"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: "localhost:6379", want: "localhost:6379"},
		{name: "braced", in: "redis://${REDIS_HOST}:6379", want: "redis://cache.internal:6379"},
		{name: "bare", in: "$REDIS_HOST:6379", want: "cache.internal:6379"},
		{name: "escaped dollar", in: "pa$$word", want: "pa$word"},
		{name: "missing braced", in: "${HOTCACHE_TEST_UNSET_A}-${HOTCACHE_TEST_UNSET_B}", wantErr: ErrMissingEnv},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandEnvStrict(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ExpandEnvStrict(%q) error = %v, want %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ExpandEnvStrict(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExpandEnvStrict_ListsMissingSorted(t *testing.T) {
	_, err := ExpandEnvStrict("${HOTCACHE_TEST_ZZ} ${HOTCACHE_TEST_AA} ${HOTCACHE_TEST_ZZ}")
	want := "secret: missing environment variable: HOTCACHE_TEST_AA, HOTCACHE_TEST_ZZ"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

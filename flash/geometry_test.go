package flash

import (
	"errors"
	"strings"
	"testing"
)

func largePage() Geometry {
	return Geometry{
		PageSize:  LargePageSize,
		OOBSize:   LargePageOOBSize,
		EraseSize: LargePageEraseSize,
		TotalSize: 16 << 20,
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Geometry)
		wantErr string
	}{
		{
			name:   "large page",
			modify: func(g *Geometry) {},
		},
		{
			name:   "no oob",
			modify: func(g *Geometry) { g.OOBSize = 0 },
		},
		{
			name:    "zero page size",
			modify:  func(g *Geometry) { g.PageSize = 0 },
			wantErr: "invalid page size",
		},
		{
			name:    "erase size not multiple of page",
			modify:  func(g *Geometry) { g.EraseSize = LargePageEraseSize + 100 },
			wantErr: "not a multiple of page size",
		},
		{
			name:    "total not multiple of erase",
			modify:  func(g *Geometry) { g.TotalSize += 2048 },
			wantErr: "not a multiple of erase size",
		},
		{
			name:    "negative base",
			modify:  func(g *Geometry) { g.Base = -1 },
			wantErr: "invalid region base",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := largePage()
			tt.modify(&g)
			err := g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGeometryDerived(t *testing.T) {
	g := largePage()

	if got := g.Stride(); got != 2112 {
		t.Errorf("Stride() = %d, want 2112", got)
	}
	if got := g.PagesPerBlock(); got != 64 {
		t.Errorf("PagesPerBlock() = %d, want 64", got)
	}
	if got := g.TotalPages(); got != 8192 {
		t.Errorf("TotalPages() = %d, want 8192", got)
	}
	if got := g.BlockCount(); got != 128 {
		t.Errorf("BlockCount() = %d, want 128", got)
	}
	if got := g.BlockAddr(5); got != 5*LargePageEraseSize {
		t.Errorf("BlockAddr(5) = %d", got)
	}
	if got := g.PageAddr(3); got != 3*LargePageSize {
		t.Errorf("PageAddr(3) = %d", got)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		off, unit int64
		index     int64
		rem       int64
	}{
		{0, 2112, 0, 0},
		{200, 2112, 0, 200},
		{2112, 2112, 1, 0},
		{2112*7 + 2111, 2112, 7, 2111},
		{130, 64, 2, 2},
	}

	for _, tt := range tests {
		index, rem := Split(tt.off, tt.unit)
		if index != tt.index || rem != tt.rem {
			t.Errorf("Split(%d, %d) = (%d, %d), want (%d, %d)",
				tt.off, tt.unit, index, rem, tt.index, tt.rem)
		}
	}
}

func TestIsErased(t *testing.T) {
	buf := make([]byte, 64)
	if IsErased(buf) {
		t.Error("zero buffer reported as erased")
	}
	Fill(buf)
	if !IsErased(buf) {
		t.Error("filled buffer not reported as erased")
	}
	buf[63] = 0xFE
	if IsErased(buf) {
		t.Error("single cleared bit not detected")
	}
	if !IsErased(nil) {
		t.Error("empty buffer should be erased")
	}
}

func TestECCStatsSub(t *testing.T) {
	prev := ECCStats{Corrected: 10, Failed: 1}
	cur := ECCStats{Corrected: 13, Failed: 1}
	if d := cur.Sub(prev); d.Corrected != 3 || d.Failed != 0 {
		t.Errorf("Sub() = %+v", d)
	}

	wrapped := ECCStats{Corrected: 1}.Sub(ECCStats{Corrected: 0xFFFFFFFF})
	if wrapped.Corrected != 2 {
		t.Errorf("wrapped Sub() = %d, want 2", wrapped.Corrected)
	}
}

func TestCheckAddresses(t *testing.T) {
	g := largePage()

	if err := g.CheckPage(2048); err != nil {
		t.Errorf("CheckPage(2048) = %v", err)
	}
	if err := g.CheckPage(100); err == nil {
		t.Error("CheckPage(100) should fail alignment")
	}
	if err := g.CheckPage(g.TotalSize); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("CheckPage(end) = %v, want ErrOutOfRange", err)
	}
	if err := g.CheckBlock(LargePageEraseSize); err != nil {
		t.Errorf("CheckBlock() = %v", err)
	}
	if err := g.CheckBlock(2048); err == nil {
		t.Error("CheckBlock(2048) should fail alignment")
	}
}

func TestIOError(t *testing.T) {
	cause := errors.New("timeout")
	err := error(&IOError{Op: OpWrite, Addr: 0x20000, Err: cause})

	if got := err.Error(); got != "write at 0x00020000 failed: timeout" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("IOError does not unwrap to cause")
	}
	if !IsIOError(err) {
		t.Error("IsIOError() = false")
	}
	if IsIOError(cause) {
		t.Error("IsIOError(cause) = true")
	}
}

package model

import "testing"

func TestSelectData(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want string
	}{
		{"markdown empty data falls back to message", `{"identifier":"markdown","data":"","message":"fallback"}`, `"fallback"`},
		{"markdown with data", `{"identifier":"markdown","data":"content"}`, `"content"`},
		{"markdown missing data", `{"identifier":"markdown","message":"fallback"}`, `"fallback"`},
		{"markdown null data", `{"identifier":"markdown","data":null,"message":"fallback"}`, `"fallback"`},
		{"markdown zero data", `{"identifier":"markdown","data":0,"message":"fallback"}`, `"fallback"`},
		{"markdown false data", `{"identifier":"markdown","data":false,"message":"fallback"}`, `"fallback"`},
		{"markdown empty array is kept", `{"identifier":"markdown","data":[],"message":"fallback"}`, `[]`},
		{"markdown nothing at all", `{"identifier":"markdown"}`, ``},
		{"grid passes data through", `{"identifier":"grid","data":"x","message":"y"}`, `"x"`},
		{"grid empty data is not replaced", `{"identifier":"grid","data":"","message":"y"}`, `""`},
		{"no identifier", `{"data":[1,2]}`, `[1,2]`},
		{"missing data", `{"identifier":"chart"}`, ``},
		{"not an object", `"just text"`, ``},
		{"empty input", ``, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(SelectData([]byte(tt.resp))); got != tt.want {
				t.Errorf("SelectData(%s) = %s, want %s", tt.resp, got, tt.want)
			}
		})
	}
}

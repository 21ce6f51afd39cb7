package recording

import (
	"testing"

	"github.com/gogpu/g3d/gpucore"
)

func TestCommandType_String(t *testing.T) {
	for ct := CmdCreateBuffer; ct <= CmdEndFrame; ct++ {
		if got := ct.String(); got == "Unknown" || got == "" {
			t.Errorf("CommandType(%d).String() = %q, want a name", ct, got)
		}
	}
}

func TestCommandInterface(t *testing.T) {
	tests := []struct {
		cmd  Command
		want CommandType
	}{
		{CreateBufferCommand{}, CmdCreateBuffer},
		{WriteBufferCommand{}, CmdWriteBuffer},
		{CreateTextureCommand{}, CmdCreateTexture},
		{CreateSamplerCommand{}, CmdCreateSampler},
		{CreateBindGroupLayoutCommand{}, CmdCreateBindGroupLayout},
		{CreateBindGroupCommand{}, CmdCreateBindGroup},
		{CreateShaderModuleCommand{}, CmdCreateShaderModule},
		{CreatePipelineCommand{}, CmdCreatePipeline},
		{DestroyCommand{}, CmdDestroy},
		{BeginFrameCommand{}, CmdBeginFrame},
		{SetPipelineCommand{}, CmdSetPipeline},
		{SetBindGroupCommand{}, CmdSetBindGroup},
		{SetVertexBufferCommand{}, CmdSetVertexBuffer},
		{SetIndexBufferCommand{}, CmdSetIndexBuffer},
		{DrawIndexedCommand{}, CmdDrawIndexed},
		{EndFrameCommand{}, CmdEndFrame},
	}
	for _, tt := range tests {
		if got := tt.cmd.Type(); got != tt.want {
			t.Errorf("%T.Type() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestDestroyRecordsKind(t *testing.T) {
	b := New()
	layout, err := b.CreateBindGroupLayout(gpucore.BindGroupLayoutDesc{Label: "l"})
	if err != nil {
		t.Fatal(err)
	}
	module, err := b.CreateShaderModule(gpucore.ShaderModuleDesc{Label: "m", WGSL: "fn main() {}"})
	if err != nil {
		t.Fatal(err)
	}
	pipeline, err := b.CreateRenderPipeline(gpucore.RenderPipelineDesc{
		Label:            "p",
		Module:           module,
		BindGroupLayouts: []gpucore.BindGroupLayoutID{layout},
	})
	if err != nil {
		t.Fatal(err)
	}
	buf, err := b.CreateBuffer(gpucore.BufferDesc{Label: "b", Size: 4})
	if err != nil {
		t.Fatal(err)
	}

	b.Reset()
	b.DestroyRenderPipeline(pipeline)
	b.DestroyShaderModule(module)
	b.DestroyBindGroupLayout(layout)
	b.DestroyBuffer(buf)
	b.DestroyBuffer(buf) // unknown IDs are ignored

	want := []ResourceKind{KindPipeline, KindShaderModule, KindBindGroupLayout, KindBuffer}
	cmds := b.Commands()
	if len(cmds) != len(want) {
		t.Fatalf("recorded %d commands, want %d", len(cmds), len(want))
	}
	for i, c := range cmds {
		d, ok := c.(DestroyCommand)
		if !ok || d.Kind != want[i] {
			t.Errorf("command %d = %#v, want DestroyCommand of kind %d", i, c, want[i])
		}
	}
}

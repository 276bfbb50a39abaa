package colors

import (
	"testing"

	"github.com/fatih/color"
	. "github.com/onsi/gomega"

	"github.com/teei/idctl/internal/testutil/clitest"
	"github.com/teei/idctl/internal/testutil/fakebridge"
	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

func init() {
	color.NoColor = true
}

func TestApplyDefaultsToPluginAction(t *testing.T) {
	g := NewGomegaWithT(t)
	srv := fakebridge.New(t).Succeed(bridge.ActionApplyColorsViaExtendScript, "Colors applied")
	session, streams := clitest.NewSession(t, srv.URL)

	cmd := NewCmdColors(session)
	cmd.SetArgs([]string{"apply"})
	g.Expect(cmd.Execute()).To(Succeed())
	g.Expect(srv.Actions()).To(Equal([]string{bridge.ActionApplyColorsViaExtendScript}))
	g.Expect(streams.Out.String()).To(ContainSubstring("Colors applied"))
}

func TestApplySwatchesSendsScript(t *testing.T) {
	g := NewGomegaWithT(t)
	srv := fakebridge.New(t).Succeed(bridge.ActionExecuteExtendScript, "Swatches created: 2, updated: 0")
	session, _ := clitest.NewSession(t, srv.URL)

	cmd := NewCmdColors(session)
	cmd.SetArgs([]string{"apply", "--swatches", "--only", "nordshore,sky"})
	g.Expect(cmd.Execute()).To(Succeed())

	sent := srv.Received()
	g.Expect(sent).To(HaveLen(1))
	code, _ := sent[0].Options["code"].(string)
	g.Expect(code).To(ContainSubstring(`upsert("TEEI nordshore"`))
	g.Expect(code).To(ContainSubstring(`upsert("TEEI sky"`))
	g.Expect(code).NotTo(ContainSubstring(`"TEEI gold"`))
}

func TestApplyRejectsUnknownSwatch(t *testing.T) {
	g := NewGomegaWithT(t)
	srv := fakebridge.New(t)
	session, _ := clitest.NewSession(t, srv.URL)

	cmd := NewCmdColors(session)
	cmd.SetArgs([]string{"apply", "--swatches", "--only", "copper"})
	g.Expect(cmd.Execute()).To(HaveOccurred())

	cmd = NewCmdColors(session)
	cmd.SetArgs([]string{"apply", "--only", "sky"})
	g.Expect(cmd.Execute()).To(MatchError(ContainSubstring("--only needs --swatches")))
	g.Expect(srv.Received()).To(BeEmpty())
}

func TestDiagnose(t *testing.T) {
	g := NewGomegaWithT(t)
	report := "Frame 1: BLACK\nFrame 2: nordshore\nFrame 3: NO FILL\n"
	srv := fakebridge.New(t).Succeed(bridge.ActionDiagnoseColors, map[string]interface{}{"report": report})
	session, streams := clitest.NewSession(t, srv.URL)

	cmd := NewCmdColors(session)
	cmd.SetArgs([]string{"diagnose"})
	g.Expect(cmd.Execute()).To(Succeed())
	g.Expect(streams.Out.String()).To(ContainSubstring("3 lines, 1 BLACK, 1 NO FILL"))

	cmd = NewCmdColors(session)
	cmd.SetArgs([]string{"diagnose", "--strict"})
	err := cmd.Execute()
	g.Expect(command.ExitCode(err)).To(Equal(command.ExitFailure))
}

func TestValidate(t *testing.T) {
	g := NewGomegaWithT(t)
	srv := fakebridge.New(t)
	session, streams := clitest.NewSession(t, srv.URL)

	cmd := NewCmdColors(session)
	cmd.SetArgs([]string{"validate", "#00393f"})
	g.Expect(cmd.Execute()).To(Succeed())
	g.Expect(streams.Out.String()).To(ContainSubstring("[OK] #00393F is nordshore"))

	cmd = NewCmdColors(session)
	cmd.SetArgs([]string{"validate", "#00393F", "c87137"})
	err := cmd.Execute()
	g.Expect(command.ExitCode(err)).To(Equal(command.ExitFailure))
	g.Expect(err).To(MatchError(ContainSubstring("1 of 2 colors")))
	g.Expect(streams.Out.String()).To(ContainSubstring("#C87137 is forbidden"))
	g.Expect(srv.Received()).To(BeEmpty())
}

func TestPaletteContext(t *testing.T) {
	g := NewGomegaWithT(t)
	srv := fakebridge.New(t)
	session, streams := clitest.NewSession(t, srv.URL)

	cmd := NewCmdColors(session)
	cmd.SetArgs([]string{"palette"})
	g.Expect(cmd.Execute()).To(Succeed())
	g.Expect(streams.Out.String()).To(ContainSubstring("TEEI nordshore"))
	g.Expect(streams.Out.String()).To(ContainSubstring("#C87137 is forbidden"))
}

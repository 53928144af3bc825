package appium

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devicelab-dev/humanflow/pkg/core"
	"github.com/devicelab-dev/humanflow/pkg/flow"
)

// Config holds session parameters for an Appium driver.
type Config struct {
	ServerURL   string // e.g. http://127.0.0.1:4723
	Platform    string // android, ios
	DeviceName  string
	UDID        string
	AppPackage  string // Android package / iOS bundle ID
	AppActivity string // Android launch activity
	NoReset     bool

	// Extra raw capabilities, merged last over the derived ones.
	Capabilities map[string]interface{}
}

// Driver implements core.Driver over an Appium session.
type Driver struct {
	client   *Client
	platform string
}

// New creates a driver without opening a session.
func New(cfg Config) *Driver {
	return &Driver{
		client:   NewClient(cfg.ServerURL),
		platform: strings.ToLower(cfg.Platform),
	}
}

// Open creates the Appium session.
func (d *Driver) Open(cfg Config) error {
	if err := d.client.Connect(buildCapabilities(cfg)); err != nil {
		return err
	}
	if p := d.client.Platform(); p != "" {
		d.platform = p
	}
	return nil
}

// Factory returns a session factory for the orchestrator.
func Factory(cfg Config) core.DriverFactory {
	return func() (core.Driver, error) {
		d := New(cfg)
		if err := d.Open(cfg); err != nil {
			return nil, err
		}
		return d, nil
	}
}

// buildCapabilities derives W3C capabilities from the config.
func buildCapabilities(cfg Config) map[string]interface{} {
	platform := strings.ToLower(cfg.Platform)
	caps := map[string]interface{}{
		"platformName":             cfg.Platform,
		"appium:noReset":           cfg.NoReset,
		"appium:newCommandTimeout": 300,
	}

	if platform == "ios" {
		caps["appium:automationName"] = "XCUITest"
		if cfg.AppPackage != "" {
			caps["appium:bundleId"] = cfg.AppPackage
		}
	} else {
		caps["appium:automationName"] = "UiAutomator2"
		if cfg.AppPackage != "" {
			caps["appium:appPackage"] = cfg.AppPackage
		}
		if cfg.AppActivity != "" {
			caps["appium:appActivity"] = cfg.AppActivity
		}
	}

	if cfg.DeviceName != "" {
		caps["appium:deviceName"] = cfg.DeviceName
	}
	if cfg.UDID != "" {
		caps["appium:udid"] = cfg.UDID
	}

	for k, v := range cfg.Capabilities {
		caps[k] = v
	}
	return caps
}

// FindElement resolves a selector through a chain of locator
// strategies, most specific first. Only absence falls through the
// chain; transport and session failures abort it.
func (d *Driver) FindElement(sel flow.Selector) (*core.Element, error) {
	for _, loc := range d.locators(sel) {
		elemID, err := d.client.FindElement(loc.strategy, loc.value)
		if err != nil {
			if errors.Is(err, core.ErrElementNotFound) {
				continue
			}
			return nil, err
		}
		return d.describeElement(elemID)
	}
	return nil, core.ErrElementNotFound
}

type locator struct {
	strategy string
	value    string
}

func (d *Driver) locators(sel flow.Selector) []locator {
	var locs []locator

	if sel.ID != "" {
		if d.platform == "ios" {
			locs = append(locs, locator{"accessibility id", sel.ID})
		} else {
			escaped := escapeUiAutomatorString(sel.ID)
			locs = append(locs,
				locator{"-android uiautomator", fmt.Sprintf(`new UiSelector().resourceIdMatches(".*%s.*")`, escaped)},
				locator{"id", sel.ID},
			)
		}
	}

	if sel.Text != "" {
		if d.platform == "ios" {
			escaped := escapeIOSPredicateString(sel.Text)
			locs = append(locs, locator{
				"-ios predicate string",
				fmt.Sprintf(`label CONTAINS[c] "%s" OR name CONTAINS[c] "%s"`, escaped, escaped),
			})
		} else {
			escaped := escapeUiAutomatorString(sel.Text)
			locs = append(locs,
				locator{"-android uiautomator", fmt.Sprintf(`new UiSelector().text("%s")`, escaped)},
				locator{"-android uiautomator", fmt.Sprintf(`new UiSelector().textContains("%s")`, escaped)},
				locator{"-android uiautomator", fmt.Sprintf(`new UiSelector().descriptionContains("%s")`, escaped)},
			)
		}
	}

	return locs
}

// describeElement fills in the element handle with rect and text. A
// missing rect is tolerated: the element is still tappable through its
// center fallback of zero bounds.
func (d *Driver) describeElement(elemID string) (*core.Element, error) {
	el := &core.Element{ID: elemID}

	bounds, err := d.client.GetElementRect(elemID)
	if err == nil {
		el.Bounds = bounds
	}
	if text, err := d.client.GetElementText(elemID); err == nil {
		el.Text = text
	}

	return el, nil
}

// Tap taps the element at its center shifted by offset.
func (d *Driver) Tap(el *core.Element, offset core.Offset) error {
	cx, cy := el.Bounds.Center()
	return d.client.TapAt(cx+offset.DX, cy+offset.DY)
}

// TypeText types text into the element.
func (d *Driver) TypeText(el *core.Element, text string) error {
	return d.client.SendKeysToElement(el.ID, text)
}

// OpenApp brings the app to the foreground.
func (d *Driver) OpenApp(appID string) error {
	return d.client.ActivateApp(appID)
}

// CloseSession releases the Appium session.
func (d *Driver) CloseSession() error {
	return d.client.Disconnect()
}

func escapeUiAutomatorString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func escapeIOSPredicateString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

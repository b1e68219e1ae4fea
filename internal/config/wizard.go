package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to quickview! Let's configure your storefront.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port to listen on",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Home URL.
	homePrompt := promptui.Prompt{
		Label:    "Public URL of the shop",
		Default:  fmt.Sprintf("http://localhost:%d/", cfg.Port),
		Validate: validateHomeURL,
	}
	if cfg.HomeURL, err = homePrompt.Run(); err != nil {
		return nil, fmt.Errorf("home url: %w", err)
	}

	// 3. Quick view trigger.
	triggerPrompt := promptui.Select{
		Label: "What should open quick view",
		Items: []string{
			"button   - a Quick View button under every product",
			"non_ajax - any add to cart button that does not add via ajax",
		},
	}
	triggerIdx, _, err := triggerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("trigger selection: %w", err)
	}
	cfg.QuickView.TriggerDefault = []string{"button", "non_ajax"}[triggerIdx]

	// 4. Ajax add to cart.
	ajaxPrompt := promptui.Select{
		Label: "Enable ajax add to cart buttons on archives",
		Items: []string{"yes", "no"},
	}
	ajaxIdx, _, err := ajaxPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ajax add to cart: %w", err)
	}
	cfg.Commerce.AjaxAddToCart = ajaxIdx == 0

	// 5. Theme directory.
	themePrompt := promptui.Prompt{
		Label:   "Theme directory with template overrides (leave blank for none)",
		Default: "",
	}
	if cfg.ThemeDir, err = themePrompt.Run(); err != nil {
		return nil, fmt.Errorf("theme dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateHomeURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter an absolute URL such as http://localhost:8080/")
	}
	return nil
}

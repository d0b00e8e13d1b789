package list

import (
	"context"
	"fmt"

	"github.com/rit3sh-x/fireview/core/constants"
	"github.com/rit3sh-x/fireview/core/factory"
)

// ListViews prints every view installed in the target dataset.
func ListViews(ctx context.Context, manager factory.ViewManager) error {
	views, err := manager.ListViews(ctx)
	if err != nil {
		return fmt.Errorf("failed to list views: %v", err)
	}

	if len(views) == 0 {
		fmt.Println(constants.YELLOW + "No views installed" + constants.RESET)
		return nil
	}

	fmt.Printf(constants.CYAN+"%d views installed:"+constants.RESET+"\n", len(views))
	for _, view := range views {
		fmt.Printf("  %s\n", view)
	}

	return nil
}

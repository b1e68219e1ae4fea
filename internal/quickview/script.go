package quickview

import (
	"encoding/json"
	"strings"
)

const behaviourScript = `$(document).on('click', __SELECTOR__, function() {
	$.fn.prettyPhoto({
		social_tools: false,
		theme: 'pp_woocommerce pp_woocommerce_quick_view',
		opacity: 0.8,
		modal: false,
		horizontal_padding: 40,
		changepicturecallback: function() {
			var $form = jQuery('.quick-view-content .variations_form');
			$form.wc_variation_form();
			$form.trigger('wc_variation_form');
			$form.find('.variations select').change();

			var images = '.woocommerce-product-gallery__wrapper > .woocommerce-product-gallery__image';
			jQuery('.woocommerce-product-gallery').flexslider({
				selector: images,
				directionNav: false,
				animation: 'slide',
				slideshow: false,
				animationLoop: false,
				controlNav: 'thumbnails'
			});
			jQuery(images).zoom();

			$form.find('.variations select').on('change', function() {
				jQuery(images).trigger('zoom.destroy');
				jQuery(images).zoom();
			});

			jQuery('body').trigger('quick-view-displayed');
		}
	});

	$.prettyPhoto.open($(this).attr('href'));

	return false;
});`

// BehaviourScript returns the jQuery code that opens the overlay for
// elements matching selector and initialises gallery, zoom and variation
// handling once the overlay content is in place.
func BehaviourScript(selector string) string {
	quoted, _ := json.Marshal(selector)
	return strings.Replace(behaviourScript, "__SELECTOR__", string(quoted), 1)
}

package browser

import "fmt"

// interactableSelector is the fixed predicate for elements worth locating:
// links, form controls, button-role elements, focusables and editables.
const interactableSelector = `a[href], button, input:not([type='hidden']), select, textarea, [role='button'], [tabindex], [contenteditable='true']`

// getInteractablesScript returns the introspection script. It captures
// everything the synthesizers need in one evaluation - attributes, label
// association, ancestor chain, positional indices - so synthesis never has
// to re-walk the live DOM per candidate.
func getInteractablesScript(ancestorDepth int) string {
	return fmt.Sprintf(`(() => {
		const SELECTOR = %q;
		const STRONG = ['data-testid', 'data-test', 'data-qa', 'name', 'aria-label', 'title'];
		const DEPTH = %d;

		const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();

		const labelInfo = (el) => {
			if (el.id) {
				const lbl = document.querySelector("label[for='" + CSS.escape(el.id) + "']");
				if (lbl) {
					return { text: norm(lbl.innerText || lbl.textContent), forAssoc: true };
				}
			}
			let p = el.parentElement;
			while (p) {
				if (p.tagName && p.tagName.toLowerCase() === 'label') {
					return { text: norm(p.innerText || p.textContent), forAssoc: false };
				}
				p = p.parentElement;
			}
			return null;
		};

		const ancestorChain = (el) => {
			const out = [];
			let a = el.parentElement;
			let direct = true;
			while (a && a.tagName && out.length < DEPTH) {
				const tag = a.tagName.toLowerCase();
				if (tag === 'html') break;
				const attrs = {};
				for (const k of STRONG) {
					if (a.hasAttribute(k)) attrs[k] = a.getAttribute(k);
				}
				out.push({ tag: tag, id: a.id || '', attrs: attrs, direct: direct });
				direct = false;
				a = a.parentElement;
			}
			return out;
		};

		const tagIndexOf = (el) => {
			const nodes = document.getElementsByTagName(el.tagName);
			for (let i = 0; i < nodes.length; i++) {
				if (nodes[i] === el) return i + 1;
			}
			return 1;
		};

		const siblingIndexOf = (el) => {
			const p = el.parentElement;
			if (!p) return 1;
			let k = 0;
			for (const ch of p.children) {
				if (ch.tagName === el.tagName) {
					k++;
					if (ch === el) return k;
				}
			}
			return 1;
		};

		const result = [];
		const seen = new Set();
		for (const el of document.querySelectorAll(SELECTOR)) {
			if (seen.has(el)) continue;
			seen.add(el);

			const tag = el.tagName.toLowerCase();
			const rect = el.getBoundingClientRect();
			const style = window.getComputedStyle(el);
			const visible = rect.width > 0 && rect.height > 0 &&
				style.display !== 'none' && style.visibility !== 'hidden';

			const attrs = {};
			for (const a of el.attributes || []) {
				attrs[a.name.toLowerCase()] = a.value;
			}

			const lbl = labelInfo(el);
			const role = el.getAttribute('role');

			result.push({
				tag: tag,
				id: el.id || '',
				classes: Array.from(el.classList || []),
				attrs: attrs,
				text: norm(el.innerText || el.textContent),
				label: lbl ? lbl.text : '',
				labelFor: lbl ? lbl.forAssoc : false,
				ancestors: ancestorChain(el),
				tagIndex: tagIndexOf(el),
				siblingIndex: siblingIndexOf(el),
				visible: visible,
				clickable: ['a', 'button', 'select'].includes(tag) ||
					(tag === 'input' && attrs.type !== 'hidden') ||
					role === 'button'
			});
		}
		return result;
	})()`, interactableSelector, ancestorDepth)
}

package dashlocal

// page shell placeholders, replaced on every request to "/"
const (
	configPlaceholder  = "@CONFIG"
	runtimePlaceholder = "@RUNTIME"
)

const defaultRootHtml = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>dashborg dialog</title>
<style>
body { font-family: sans-serif; margin: 20px; }
button { margin: 0 6px 6px 0; }
#dash-toasts { position: fixed; bottom: 16px; left: 50%; transform: translateX(-50%); }
.dash-toast { background: #333; color: #fff; padding: 8px 14px; margin-top: 6px; border-radius: 4px; }
</style>
</head>
<body>
<div id="dash-root"></div>
<div id="dash-toasts"></div>
<script>
window.DashConfig = @CONFIG;
</script>
<script>
@RUNTIME
</script>
</body>
</html>
`

// client runtime: applies actions, binds signals, implements the surface features
// ("openedsignal", "escguard") and streams actions (websocket, long-poll fallback).
const runtimeJs = `(function() {
    var config = window.DashConfig || {};
    var state = {uiid: null, stopped: false};

    function logDebug() {
        if (config.debug && window.console) {
            console.log.apply(console, arguments);
        }
    }

    function post(url, data) {
        return fetch(url, {
            method: "POST",
            credentials: "same-origin",
            headers: {"Content-Type": "application/json", "X-Csrf-Token": config.csrf},
            body: JSON.stringify(data || {}),
        }).then(function(resp) {
            return resp.json();
        }).then(function(rtn) {
            if (!rtn.success) {
                var err = new Error(rtn.error);
                err.errcode = rtn.errcode;
                throw err;
            }
            return rtn.data;
        });
    }

    function findSurface(id) {
        if (!id) {
            return null;
        }
        return document.querySelector("[data-surfaceid='" + id + "']");
    }

    function eventDetail(e) {
        if (e instanceof CustomEvent && e.detail != null && typeof(e.detail) == "object") {
            return e.detail;
        }
        return null;
    }

    function sendSignal(el, name, detail) {
        if (state.uiid == null) {
            return;
        }
        var sig = {ts: Date.now(), uiid: state.uiid, surfaceid: el.dataset.surfaceid, signal: name};
        if (detail != null) {
            sig.detail = detail;
        }
        post("/api/signal", sig).then(function(data) {
            runActions(data && data.actions);
        }).catch(function(err) {
            logDebug("dashdialog signal error", name, err.errcode, err.message);
        });
    }

    function bindSignal(el, name) {
        el._dashSignals = el._dashSignals || {};
        if (el._dashSignals[name]) {
            return;
        }
        el._dashSignals[name] = true;
        el.addEventListener(name, function(e) {
            if (name == "cancel" && el._dashEscGuard) {
                return;
            }
            sendSignal(el, name, eventDetail(e));
        });
    }

    function bindTree(root) {
        var elems = [root].concat(Array.prototype.slice.call(root.querySelectorAll("[data-signals]")));
        elems.forEach(function(el) {
            if (!el.dataset || !el.dataset.signals) {
                return;
            }
            el.dataset.signals.split(",").forEach(function(name) {
                bindSignal(el, name);
            });
        });
    }

    function installOpenedSignal(el) {
        el._dashOpenedSignal = true;
        if (el._dashOpenedWrapped) {
            return;
        }
        el._dashOpenedWrapped = true;
        var origShow = el.show;
        var origShowModal = el.showModal;
        el.show = function() {
            origShow.call(el);
            if (el._dashOpenedSignal) {
                el.dispatchEvent(new CustomEvent("opened", {detail: {modal: false}}));
            }
        };
        el.showModal = function() {
            origShowModal.call(el);
            if (el._dashOpenedSignal) {
                el.dispatchEvent(new CustomEvent("opened", {detail: {modal: true}}));
            }
        };
    }

    function installEscGuard(el) {
        el._dashEscGuard = true;
        if (el._dashEscGuardBound) {
            return;
        }
        el._dashEscGuardBound = true;
        el.addEventListener("cancel", function(e) {
            if (el._dashEscGuard) {
                e.preventDefault();
            }
        });
    }

    function setFeature(el, feature, on) {
        if (feature == "openedsignal") {
            if (on) {
                installOpenedSignal(el);
            } else {
                el._dashOpenedSignal = false;
            }
        } else if (feature == "escguard") {
            if (on) {
                installEscGuard(el);
            } else {
                el._dashEscGuard = false;
            }
        } else {
            logDebug("dashdialog unknown feature", feature);
        }
    }

    function notify(data) {
        var toasts = document.getElementById("dash-toasts");
        if (toasts == null || data == null) {
            return;
        }
        var toast = document.createElement("div");
        toast.className = "dash-toast";
        toast.textContent = data.text;
        toasts.appendChild(toast);
        setTimeout(function() { toast.remove(); }, data.duration || 5000);
    }

    function attach(action) {
        var parent = findSurface(action.parentid);
        if (parent == null) {
            logDebug("dashdialog attach, no parent", action.parentid);
            return;
        }
        var tmpl = document.createElement("template");
        tmpl.innerHTML = action.html;
        var node = tmpl.content.firstElementChild;
        if (node == null) {
            return;
        }
        bindTree(node);
        parent.insertBefore(node, parent.children[action.index || 0] || null);
    }

    function runAction(action) {
        logDebug("dashdialog action", action);
        if (action.type == "notify") {
            notify(action.data);
            return;
        }
        if (action.type == "attach") {
            attach(action);
            return;
        }
        var el = findSurface(action.surfaceid);
        if (el == null) {
            logDebug("dashdialog no surface", action.surfaceid);
            return;
        }
        switch (action.type) {
        case "detach":
            el.remove();
            break;
        case "callfn":
            try {
                el[action.selector]();
            } catch (e) {
                logDebug("dashdialog callfn error", action.selector, e);
            }
            break;
        case "setfeature":
            setFeature(el, action.selector, !!action.data);
            break;
        case "setattr":
            el.setAttribute(action.selector, action.data == null ? "" : action.data);
            break;
        case "removeattr":
            el.removeAttribute(action.selector);
            break;
        case "setstyle":
            if (action.data == null || action.data === "") {
                el.style.removeProperty(action.selector);
            } else {
                el.style.setProperty(action.selector, action.data);
            }
            break;
        case "settext":
            el.textContent = action.data == null ? "" : action.data;
            break;
        case "listen":
            bindSignal(el, action.selector);
            break;
        default:
            logDebug("dashdialog unknown action", action.type);
        }
    }

    function runActions(actions) {
        if (!actions) {
            return;
        }
        actions.forEach(runAction);
    }

    function drainLoop() {
        if (state.stopped) {
            return;
        }
        post("/api/drain", {uiid: state.uiid}).then(function(data) {
            runActions(data && data.actions);
            drainLoop();
        }).catch(function(err) {
            if (err.errcode == "NOUI") {
                state.stopped = true;
                notify({text: "Session expired, reload the page", duration: 60000});
                return;
            }
            setTimeout(drainLoop, 1000);
        });
    }

    function startStream() {
        if (!window.WebSocket) {
            drainLoop();
            return;
        }
        var proto = (window.location.protocol == "https:" ? "wss:" : "ws:");
        var url = proto + "//" + window.location.host + "/api/stream?uiid=" + encodeURIComponent(state.uiid) + "&csrf=" + encodeURIComponent(config.csrf);
        var ws = new WebSocket(url);
        var opened = false;
        ws.onopen = function() {
            opened = true;
        };
        ws.onmessage = function(e) {
            var msg = JSON.parse(e.data);
            runActions(msg.actions);
        };
        ws.onclose = function() {
            if (!opened) {
                logDebug("dashdialog stream unavailable, falling back to long-poll");
                drainLoop();
                return;
            }
            setTimeout(startStream, 1000);
        };
    }

    function load() {
        post("/api/load", {}).then(function(data) {
            state.uiid = data.uiid;
            var root = document.getElementById("dash-root");
            root.innerHTML = data.html;
            bindTree(root);
            runActions(data.actions);
            startStream();
        }).catch(function(err) {
            notify({text: "Cannot load page: " + err.message, duration: 60000});
        });
    }

    if (document.readyState == "loading") {
        document.addEventListener("DOMContentLoaded", load);
    } else {
        load();
    }
})();
`
